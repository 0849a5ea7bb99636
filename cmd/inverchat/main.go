package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/datamef/inverchat/internal/app"
	"github.com/datamef/inverchat/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		question     string
		rawSQL       string
		instructions string
		verbose      bool
	)

	flag.StringVar(&question, "q", "", "ask a single question and exit")
	flag.StringVar(&rawSQL, "sql", "", "run a raw SQL query through the bridge and exit")
	flag.StringVar(&instructions, "instructions", "", "path to an instructions file overriding the built-in one")
	flag.BoolVar(&verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if rawSQL != "" {
		return app.RunSQL(ctx, log, cfg, rawSQL)
	}
	if question != "" {
		return app.RunQuestion(ctx, log, cfg, instructions, question)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("no TTY available: use -q or -sql in non-interactive mode")
	}

	return app.RunInteractive(ctx, log, cfg, instructions)
}

func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
	}))
}
