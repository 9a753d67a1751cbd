package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/api"
	"github.com/mtzs0/kockabarlang-party-planner/config"
	"github.com/mtzs0/kockabarlang-party-planner/database"
	"github.com/mtzs0/kockabarlang-party-planner/logging"
	"github.com/mtzs0/kockabarlang-party-planner/notify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger.Info("connecting to database")
			db, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			if migrate {
				applied, err := database.Migrate(ctx, db)
				if err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				logger.Info("migrations applied", zap.Strings("files", applied))
			}

			service, err := api.NewAPI(db, api.Options{
				Catalog:               slotCatalog(ctx, cfg, db, logger),
				Notifier:              notify.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout, logger),
				ReservationsPerMinute: cfg.ReservationsPerMinute,
				AllowedOrigins:        cfg.Origins(),
				TrustedProxies:        cfg.Proxies(),
				Logger:                logger,
			})
			if err != nil {
				return err
			}
			service.RegisterRoutes()

			srv := &http.Server{
				Addr:              ":" + cfg.AppPort,
				Handler:           service.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown", zap.Error(err))
				}
			}()

			logger.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.Env))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply database migrations on startup")
	return cmd
}
