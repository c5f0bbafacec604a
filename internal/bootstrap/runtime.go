// Package bootstrap wires the process-wide runtime dependencies.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData fills an empty database with demo users, skills and swaps.
	SeedDemoData bool
	SeedUsers    int
	SeedSwaps    int
}

// OptionsFromConfig derives runtime options from the SEED_* settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SeedDemoData: cfg.SeedDemoData,
		SeedUsers:    cfg.SeedUsers,
		SeedSwaps:    cfg.SeedSwaps,
	}
}

// seedDemo is replaced in tests.
var seedDemo = seedIfEmpty

// InitRuntime connects to the database, brings the schema up to date, connects
// to Redis and optionally seeds demo data.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("schema setup failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seedDemo(db, opts); err != nil {
			_ = cache.Close()
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(db *gorm.DB, opts Options) error {
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("Skipping demo seed, users already present", slog.Int64("users", users))
		return nil
	}

	_, err := seed.Seed(db, seed.Options{NumUsers: opts.SeedUsers, NumSwaps: opts.SeedSwaps})
	return err
}
