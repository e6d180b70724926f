// initdb 建表（可选先删表）并通过 service 层导入种子用户。
//
//	go run ./cmd/initdb --reset --seed configs/seed.example.json
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"user-api/internal/core/config"
	"user-api/internal/core/database"
	"user-api/internal/core/logger"
	"user-api/internal/repo"
	"user-api/internal/service"
)

type options struct {
	reset    bool
	seedFile string
}

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file path")
	reset := flag.Bool("reset", false, "drop the users table before migrating")
	seedFile := flag.String("seed", "", "JSON array of users to insert")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log, cleanup := logger.FromConfig(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err := run(ctx, cfg.DB, log, options{reset: *reset, seedFile: *seedFile})
	cancel()
	if err != nil {
		log.Error("initdb failed", zap.Error(err))
	}
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// run 所有 defer 都在这里执行完，main 才决定退出码
func run(ctx context.Context, c config.DB, log *zap.Logger, o options) error {
	db, err := database.NewGorm(database.Opts{
		Driver:          c.Driver,
		DSN:             c.DSN,
		Username:        c.Username,
		Password:        c.Password,
		LogLevel:        c.LogLevel,
		SlowThresholdMs: c.SlowThresholdMs,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if o.reset {
		err = database.Reset(db)
	} else {
		err = database.Migrate(db)
	}
	if err != nil {
		return fmt.Errorf("schema (reset=%t): %w", o.reset, err)
	}
	log.Info("schema ready", zap.Bool("reset", o.reset))

	if o.seedFile == "" {
		return nil
	}
	f, err := os.Open(o.seedFile)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	n, err := seed(ctx, service.NewUserService(repo.NewUserRepo(db)), f)
	if err != nil {
		return fmt.Errorf("seed %s (inserted %d): %w", o.seedFile, n, err)
	}
	log.Info("seed done", zap.String("file", o.seedFile), zap.Int("inserted", n))
	return nil
}
