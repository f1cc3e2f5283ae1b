package main

import (
	"errors"
	"log"
	"os"

	"github.com/monocle-dev/house/db"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/config"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var (
		username string
		email    string
		password string
		sample   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and optional sample locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if password == "" {
				return errors.New("admin password required: pass --password or set ADMIN_PASSWORD")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			conn, err := db.ConnectDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close(conn)

			if err := db.MigrateDatabase(conn); err != nil {
				return err
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			created, err := db.SeedAdmin(cmd.Context(), conn, username, email, hash)
			if err != nil {
				return err
			}
			if created {
				log.Printf("Created admin %s", username)
			} else {
				log.Printf("Admin %s already exists", username)
			}

			if sample {
				if err := db.SeedLocations(cmd.Context(), conn); err != nil {
					return err
				}
				log.Println("Sample locations seeded")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", envOr("ADMIN_USERNAME", "admin"), "admin username")
	cmd.Flags().StringVar(&email, "email", envOr("ADMIN_EMAIL", "admin@example.com"), "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	cmd.Flags().BoolVar(&sample, "sample", false, "also insert sample regions, cities and districts")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
