package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/solehaus/wholesale-backend/internal/buyers"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/db"
	"github.com/solehaus/wholesale-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "accounts", Format: "console", Output: os.Stderr})

	var passwords config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &passwords); err != nil {
		logg.Error(context.Background(), "failed to load password config", err)
		os.Exit(1)
	}

	app := &app{
		passwords: passwords,
		openBuyers: func(ctx context.Context) (*buyers.Repository, func(), error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, nil, err
			}
			client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
			if err != nil {
				return nil, nil, err
			}
			return buyers.NewRepository(client.DB()), func() { _ = client.Close() }, nil
		},
	}

	if err := app.rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
