package main

import (
	"log"

	"github.com/monocle-dev/house/db"
	"github.com/monocle-dev/house/internal/config"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			log.Println("Schema is up to date")
			return nil
		},
	}
}
