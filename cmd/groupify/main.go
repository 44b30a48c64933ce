package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/dkolev/groupify/internal/config"
	"github.com/dkolev/groupify/internal/scanning"
	"github.com/dkolev/groupify/internal/shell"
	"github.com/dkolev/groupify/internal/storage/sqlite"
	"github.com/dkolev/groupify/pkg/logging"
)

func main() {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()

	fs := ff.NewFlagSet("groupify")
	var (
		dbPath      = fs.StringLong("db", cfg.DBPath, "Session database file path")
		currency    = fs.StringLong("currency", cfg.DefaultCurrency, "ISO currency code for parsed receipts")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", cfg.GeminiModel, "Google Gemini model name")
		workers     = fs.IntLong("workers", cfg.MaxWorkers, "Concurrent image scans")
		quick       = fs.BoolLong("quick", "Scan the given images, print the parsed receipt and exit")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("GROUPIFY"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg.DBPath = *dbPath
	cfg.DefaultCurrency = *currency
	cfg.GeminiModel = *geminiModel
	cfg.MaxWorkers = *workers
	if *geminiKey != "" {
		cfg.GeminiAPIKey = *geminiKey
	}

	var scanner scanning.Scanner
	if cfg.GeminiAPIKey != "" {
		var err error
		scanner, err = scanning.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("failed to initialize scanner", "error", err)
			os.Exit(1)
		}
		defer scanner.Close()
	} else {
		slog.Warn("no Gemini API key configured, receipt scanning disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *quick {
		if err := runQuick(ctx, cfg, scanner, fs.GetArgs()); err != nil {
			slog.Error("quick scan failed", "error", err)
			os.Exit(1)
		}
		return
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open session database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	sh := shell.New(cfg, scanner, store, os.Stdin, os.Stdout)
	if err := sh.Run(ctx); err != nil {
		slog.Error("shell exited with error", "error", err)
		os.Exit(1)
	}
}

// runQuick scans the given receipt images and prints the parsed result
// without entering the interactive shell.
func runQuick(ctx context.Context, cfg *config.Config, scanner scanning.Scanner, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no image paths given")
	}

	sh := shell.New(cfg, scanner, nil, os.Stdin, os.Stdout)
	if err := sh.ProcessReceipt(ctx, paths); err != nil {
		return err
	}
	sh.DisplayReceipt()
	return nil
}
