package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
	"github.com/artpar/dokploy-deploy/internal/shell/actions"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("dokploy-deploy %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if cfg != nil {
		// Secrets are masked before anything else reaches the log.
		MaskSecrets(os.Stdout, cfg.Inputs)
	}
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			actions.NewAction(os.Stdout, "").Errorf("%s", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		}
		return ExitConfigError
	}

	// Setup logger
	logger := SetupLogger(cfg, os.Stdout)
	logger.Info("starting dokploy-deploy",
		"version", Version,
		"config", *configPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(cfg, os.Stdout, logger)
	if err := runner.Run(ctx); err != nil {
		var rErr *RunError
		if errors.As(err, &rErr) {
			logger.Error("deployment failed",
				"error", rErr.Err,
				"operation", rErr.Op,
			)
			return rErr.ExitCode
		}
		logger.Error("deployment failed", "error", err)
		return ExitPlatformError
	}

	return ExitSuccess
}
