// Package server implements the `backpackpi server` subcommand.
package server

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skbidisigma1/backpackpi/internal/config"
	"github.com/skbidisigma1/backpackpi/internal/daemon"
	"github.com/skbidisigma1/backpackpi/internal/logging"
	"github.com/skbidisigma1/backpackpi/internal/version"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		configPath  string
		envPath     string
		logLevel    string
		logJSON     bool
		showVersion bool
	)
	fs.StringVar(&configPath, "config", "", "path to backpackpi.yaml (optional; env vars override)")
	fs.StringVar(&envPath, "env", ".env", "path to a dotenv file loaded before config")
	fs.StringVar(&logLevel, "log-level", "", "log level: debug|info|warning|error (overrides config)")
	fs.BoolVar(&logJSON, "log-json", false, "emit JSON logs")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Printf("backpackpi server %s\n", version.Version)
		return nil
	}

	// Missing dotenv files are fine; the file is a development nicety.
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	lg, err := logging.New(logging.Options{Level: level, JSON: logJSON})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lg.Info("starting", "version", version.Version)
	return daemon.Run(ctx, daemon.Options{Config: cfg, Logger: lg})
}
