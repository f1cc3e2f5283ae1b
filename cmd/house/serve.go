package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/db"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/config"
	"github.com/monocle-dev/house/internal/events"
	"github.com/monocle-dev/house/internal/handlers"
	"github.com/monocle-dev/house/internal/router"
	"github.com/monocle-dev/house/internal/scheduler"
	"github.com/monocle-dev/house/internal/services"
	"github.com/monocle-dev/house/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.ConnectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	if cfg.Server.AutoMigrate {
		if err := db.MigrateDatabase(conn); err != nil {
			return err
		}
	}

	jobs := scheduler.NewScheduler()
	defer jobs.Stop()

	var (
		redisClient *redis.Client
		blacklist   auth.Blacklist
	)

	if cfg.Redis.URL != "" {
		redisClient, err = auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		blacklist = auth.NewRedisBlacklist(redisClient)
		log.Println("Token blacklist backed by redis")
	} else {
		stored := auth.NewGormBlacklist(conn)
		blacklist = stored

		jobs.Add("blacklist-purge", cfg.Auth.PurgeInterval, func(ctx context.Context) error {
			n, err := stored.Purge(ctx, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("Purged %d expired blacklisted tokens", n)
			}
			return nil
		})
	}

	hub := events.NewHub(cfg.Server.AllowedOrigins)
	notifier := services.NewListingNotifier(cfg.Notify)
	defer notifier.Wait()

	publisher := events.Fanout{hub}
	if notifier.Enabled() {
		publisher = append(publisher, notifier)
	}

	tokens := auth.NewTokenManager(cfg.Auth, blacklist)
	store := storage.NewLocal(cfg.Media.Root, cfg.Media.URL)

	h := handlers.New(handlers.Dependencies{
		DB:     conn,
		Redis:  redisClient,
		Tokens: tokens,
		Store:  store,
		Hub:    hub,
		Jobs:   jobs,
		Events: publisher,
		Paging: cfg.Paging,
		Media:  cfg.Media,
	})

	r := router.NewRouter(h, tokens, cfg.Server)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
