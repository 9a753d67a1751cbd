package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/mtzs0/kockabarlang-party-planner/availability"
	"github.com/mtzs0/kockabarlang-party-planner/catalog"
	"github.com/mtzs0/kockabarlang-party-planner/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "partyplanner",
		Short:         "Birthday party reservation backend for the booking widget",
		Version:       fmt.Sprintf("%s (%s)", Version, CommitSHA),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSlotsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// slotCatalog returns the database catalog, fronted by Redis when configured.
// An unreachable Redis is logged and skipped.
func slotCatalog(ctx context.Context, cfg config.Config, db *sql.DB, logger *zap.Logger) availability.SlotCatalog {
	accessor := catalog.NewAccessor(db, logger)
	if cfg.RedisAddr == "" {
		return accessor
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return accessor
	}
	logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CatalogCacheTTL))
	return catalog.NewCachedCatalog(rdb, accessor, cfg.CatalogCacheTTL, logger)
}
