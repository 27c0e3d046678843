package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/revaspay/freemopay/internal/config"
	"github.com/revaspay/freemopay/internal/logging"
	"github.com/revaspay/freemopay/internal/services/payment/freemopay"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.Log.Level, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	code := run(os.Args[1:], cfg, logger, os.Stdout, os.Stderr)
	_ = logger.Sync()
	os.Exit(code)
}

func run(args []string, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) int {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(stderr)
		return exitUsage
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "freemopay: %v\n", err)
		return exitFailure
	}

	client, err := freemopay.New(freemopay.Config{
		User:        cfg.FreemoPay.User,
		Password:    cfg.FreemoPay.Password,
		BaseURL:     cfg.FreemoPay.URL,
		AccessToken: cfg.FreemoPay.AccessToken,
	}, freemopay.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "freemopay: %v\n", err)
		return exitFailure
	}

	return dispatch(context.Background(), args, client, stdout, stderr)
}
