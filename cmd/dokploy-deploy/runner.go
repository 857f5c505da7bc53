package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
	"github.com/artpar/dokploy-deploy/internal/core/validation"
	"github.com/artpar/dokploy-deploy/internal/shell/actions"
	"github.com/artpar/dokploy-deploy/internal/shell/deployer"
	"github.com/artpar/dokploy-deploy/internal/shell/dokploy"
	"github.com/artpar/dokploy-deploy/internal/shell/workers"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess          = 0
	ExitConfigError      = 1
	ExitValidationError  = 2
	ExitPlatformError    = 3
	ExitDeploymentFailed = 4
	ExitUnhealthy        = 5
)

// =============================================================================
// Runner
// =============================================================================

// Runner wires the Dokploy client, the deployer and the step outputs for one run.
type Runner struct {
	cfg     *Config
	stdout  io.Writer
	logger  *slog.Logger
	runID   string
	options []deployer.Option
}

// NewRunner creates a runner. Options are passed through to the deployer.
func NewRunner(cfg *Config, stdout io.Writer, logger *slog.Logger, opts ...deployer.Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Runner{
		cfg:     cfg,
		stdout:  stdout,
		logger:  logger.With("run_id", runID),
		runID:   runID,
		options: opts,
	}
}

// Run deploys, then writes the step outputs for whatever the run resolved.
// Failures are returned as *RunError carrying the process exit code.
func (r *Runner) Run(ctx context.Context) error {
	in := r.cfg.Inputs

	client := dokploy.NewClient(dokploy.Config{
		BaseURL:      in.DokployURL,
		APIKey:       in.APIKey,
		Timeout:      r.cfg.API.Timeout,
		RetryMax:     r.cfg.API.RetryMax,
		RequestID:    r.runID,
		LogRequests:  in.LogAPIRequests,
		LogResponses: in.LogAPIResponses,
	}, r.logger)

	d := deployer.New(client, r.logger, r.options...)
	report, runErr := d.Run(ctx, in)

	if report != nil {
		action := actions.NewAction(r.stdout, r.cfg.GitHub.Output)
		actions.NewOutputs(action).Set(report.Outputs())
		r.logSummary(ctx, report, runErr)
	}

	if runErr != nil {
		return classify(runErr)
	}
	return nil
}

// logSummary logs the final state of a run that got past validation.
func (r *Runner) logSummary(ctx context.Context, report *deployer.Report, runErr error) {
	level := slog.LevelInfo
	if runErr != nil || report.Failed() {
		level = slog.LevelError
	}
	r.logger.Log(ctx, level, "deployment summary",
		"deployment_status", report.DeploymentStatus,
		"health", report.Health,
		"deployment_url", report.DeploymentURL,
	)
}

// classify maps a deployer error to its exit code.
func classify(err error) *RunError {
	var verrs *validation.ValidationErrors
	var cfgErr *domain.ConfigurationError

	switch {
	case errors.As(err, &verrs):
		return &RunError{Op: "validate inputs", Err: err, ExitCode: ExitValidationError}
	case errors.As(err, &cfgErr):
		return &RunError{Op: "build environment", Err: err, ExitCode: ExitConfigError}
	case errors.Is(err, workers.ErrDeploymentFailed), errors.Is(err, workers.ErrDeploymentTimeout):
		return &RunError{Op: "wait for deployment", Err: err, ExitCode: ExitDeploymentFailed}
	case errors.Is(err, deployer.ErrUnhealthy):
		return &RunError{Op: "health check", Err: err, ExitCode: ExitUnhealthy}
	default:
		return &RunError{Op: "deploy", Err: err, ExitCode: ExitPlatformError}
	}
}

// MaskSecrets masks every secret input in the runner log.
func MaskSecrets(w io.Writer, in domain.Inputs) {
	action := actions.NewAction(w, "")
	for _, secret := range in.Secrets() {
		actions.Mask(action, secret)
	}
}

// =============================================================================
// Run Error
// =============================================================================

// RunError represents a failed run.
type RunError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *RunError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RunError) Unwrap() error {
	return e.Err
}
