// Command statement writes the stored account history as a PDF without
// going through the web server.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"banquito/internal/backend"
	"banquito/internal/config"
	applog "banquito/internal/log"
	"banquito/internal/pdf"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	out := flag.String("o", pdf.DefaultFilename, "output file path")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}()
	}

	account := result.Store.Load(ctx)

	f, err := os.Create(*out)
	if err != nil {
		logger.Error("Failed to create output file", "error", err, "path", *out)
		os.Exit(1)
	}
	defer f.Close()

	if err := pdf.NewStatement(account).Write(f); err != nil {
		logger.Error("Failed to write statement", "error", err)
		os.Exit(1)
	}

	logger.Info("Statement written", "path", *out, "moves", len(account.Moves))
}
