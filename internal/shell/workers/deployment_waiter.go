package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artpar/dokploy-deploy/internal/shell/dokploy"
)

// =============================================================================
// Deployment Waiter
// =============================================================================

var (
	// ErrDeploymentFailed is returned when the platform reports the deployment as errored.
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrDeploymentTimeout is returned when no deployment finished in time.
	ErrDeploymentTimeout = errors.New("timed out waiting for deployment")
)

// Default deployment waiter settings.
const (
	DefaultDeploymentTimeout  = 600 * time.Second
	DefaultDeploymentInterval = 5 * time.Second
)

// DeploymentLister lists the deployments of an application.
type DeploymentLister interface {
	ListDeployments(ctx context.Context, applicationID string) ([]dokploy.Deployment, error)
}

// DeploymentWaiterConfig configures the deployment waiter.
type DeploymentWaiterConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultDeploymentWaiterConfig returns the default configuration.
func DefaultDeploymentWaiterConfig() DeploymentWaiterConfig {
	return DeploymentWaiterConfig{
		Timeout:      DefaultDeploymentTimeout,
		PollInterval: DefaultDeploymentInterval,
	}
}

// DeploymentWaiter polls the platform until the deployment triggered by this
// run reaches a terminal status.
type DeploymentWaiter struct {
	lister DeploymentLister
	sleep  Sleeper
	now    Clock
	config DeploymentWaiterConfig
	logger *slog.Logger
}

// DeploymentWaiterOption customizes a DeploymentWaiter.
type DeploymentWaiterOption func(*DeploymentWaiter)

// WithWaiterSleeper replaces the wait between polls.
func WithWaiterSleeper(s Sleeper) DeploymentWaiterOption {
	return func(w *DeploymentWaiter) { w.sleep = s }
}

// WithWaiterClock replaces the clock used to measure the timeout.
func WithWaiterClock(c Clock) DeploymentWaiterOption {
	return func(w *DeploymentWaiter) { w.now = c }
}

// NewDeploymentWaiter creates a new deployment waiter.
func NewDeploymentWaiter(lister DeploymentLister, config DeploymentWaiterConfig, logger *slog.Logger, opts ...DeploymentWaiterOption) *DeploymentWaiter {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultDeploymentTimeout
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultDeploymentInterval
	}

	w := &DeploymentWaiter{
		lister: lister,
		sleep:  SleepContext,
		now:    time.Now,
		config: config,
		logger: logger.With("component", "deployment_waiter"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait blocks until a deployment of applicationID that is not in known
// reaches done or error.
//
// known holds the deployment IDs that existed before this run deployed, so an
// older finished deployment is never mistaken for the new one. Listing errors
// caused by the network or a 5xx response are retried until the timeout;
// any other listing error is returned at once.
//
// Example:
//
//	before, _ := client.ListDeployments(ctx, appID)
//	_ = client.DeployApplication(ctx, appID, "", "")
//	d, err := waiter.Wait(ctx, appID, DeploymentIDs(before))
func (w *DeploymentWaiter) Wait(ctx context.Context, applicationID string, known map[string]struct{}) (dokploy.Deployment, error) {
	start := w.now()
	w.logger.Info("waiting for deployment",
		"application_id", applicationID,
		"timeout", w.config.Timeout,
	)

	for {
		deployments, err := w.lister.ListDeployments(ctx, applicationID)
		switch {
		case err == nil:
			if d, ok := NewestDeployment(deployments, known); ok {
				switch d.Status {
				case dokploy.DeploymentStatusDone:
					w.logger.Info("deployment finished", "deployment_id", d.DeploymentID)
					return d, nil
				case dokploy.DeploymentStatusError:
					w.logger.Error("deployment errored", "deployment_id", d.DeploymentID)
					return d, fmt.Errorf("%w: deployment %s", ErrDeploymentFailed, d.DeploymentID)
				default:
					w.logger.Debug("deployment in progress", "deployment_id", d.DeploymentID, "status", d.Status)
				}
			}
		case isTransient(err):
			w.logger.Warn("listing deployments failed, will retry", "error", err)
		default:
			return dokploy.Deployment{}, fmt.Errorf("list deployments: %w", err)
		}

		if elapsed := w.now().Sub(start); elapsed >= w.config.Timeout {
			w.logger.Error("deployment wait timed out", "elapsed", elapsed)
			return dokploy.Deployment{}, fmt.Errorf("%w after %s", ErrDeploymentTimeout, w.config.Timeout)
		}

		if err := w.sleep(ctx, w.config.PollInterval); err != nil {
			return dokploy.Deployment{}, err
		}
	}
}

// DeploymentIDs returns the set of IDs in deployments.
func DeploymentIDs(deployments []dokploy.Deployment) map[string]struct{} {
	ids := make(map[string]struct{}, len(deployments))
	for _, d := range deployments {
		ids[d.DeploymentID] = struct{}{}
	}
	return ids
}

// NewestDeployment returns the most recently created deployment whose ID is
// not in known. CreatedAt is an RFC 3339 timestamp, so string order is time
// order.
func NewestDeployment(deployments []dokploy.Deployment, known map[string]struct{}) (dokploy.Deployment, bool) {
	var newest dokploy.Deployment
	found := false
	for _, d := range deployments {
		if _, seen := known[d.DeploymentID]; seen {
			continue
		}
		if !found || d.CreatedAt > newest.CreatedAt {
			newest = d
			found = true
		}
	}
	return newest, found
}

func isTransient(err error) bool {
	return errors.Is(err, dokploy.ErrRequestFailed) || errors.Is(err, dokploy.ErrUnexpectedStatus)
}
