// Package workers contains the polling workers used after a deployment is
// triggered: the health checker and the deployment waiter.
package workers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/artpar/dokploy-deploy/internal/core/health"
)

// =============================================================================
// Capabilities
// =============================================================================

// Getter issues a single GET and reports the response status code.
// Transport failures are returned as errors.
type Getter interface {
	Get(ctx context.Context, url string) (int, error)
}

// Sleeper pauses for d, returning early with ctx.Err() if ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Clock returns the current time.
type Clock func() time.Time

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HTTPGetter is the default Getter backed by a pooled HTTP client.
type HTTPGetter struct {
	client    *http.Client
	userAgent string
}

// NewHTTPGetter creates an HTTPGetter whose requests are bounded by timeout.
func NewHTTPGetter(timeout time.Duration) *HTTPGetter {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout
	return &HTTPGetter{
		client:    client,
		userAgent: "dokploy-health-check",
	}
}

// Get performs the request and discards the body.
func (g *HTTPGetter) Get(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// =============================================================================
// Health Checker
// =============================================================================

// HealthCheckerConfig configures the health checker.
type HealthCheckerConfig struct {
	Settings health.Settings
}

// DefaultHealthCheckerConfig returns the default configuration.
func DefaultHealthCheckerConfig() HealthCheckerConfig {
	return HealthCheckerConfig{Settings: health.DefaultSettings()}
}

// HealthChecker polls a freshly deployed application until it answers 200,
// the attempt budget is spent, or the time budget runs out.
type HealthChecker struct {
	getter Getter
	sleep  Sleeper
	now    Clock
	config HealthCheckerConfig
	logger *slog.Logger
}

// HealthCheckerOption customizes a HealthChecker.
type HealthCheckerOption func(*HealthChecker)

// WithSleeper replaces the inter-retry wait.
func WithSleeper(s Sleeper) HealthCheckerOption {
	return func(h *HealthChecker) { h.sleep = s }
}

// WithClock replaces the clock used to measure the time budget.
func WithClock(c Clock) HealthCheckerOption {
	return func(h *HealthChecker) { h.now = c }
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(getter Getter, config HealthCheckerConfig, logger *slog.Logger, opts ...HealthCheckerOption) *HealthChecker {
	if logger == nil {
		logger = slog.Default()
	}

	h := &HealthChecker{
		getter: getter,
		sleep:  SleepContext,
		now:    time.Now,
		config: config,
		logger: logger.With("component", "health_checker"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Check runs one health check against deploymentURL.
//
// It returns ResultSkipped without any request when checks are disabled or
// the URL is empty. Otherwise each attempt GETs deploymentURL+Path: a 200
// returns ResultHealthy at once, anything else (including transport errors)
// counts as a failed attempt. The time budget is checked after every attempt
// and after every wait, and wins over remaining attempts.
func (h *HealthChecker) Check(ctx context.Context, deploymentURL string) health.Result {
	settings := h.config.Settings

	if !settings.Enabled {
		h.logger.Info("health check disabled")
		return health.ResultSkipped
	}
	if deploymentURL == "" {
		h.logger.Warn("no deployment URL available, skipping health check")
		return health.ResultSkipped
	}

	url := health.CheckURL(deploymentURL, settings.Path)
	session := health.NewSession(settings, h.now())

	h.logger.Info("performing health check",
		"url", url,
		"timeout", settings.Timeout,
		"retries", session.MaxRetries,
		"interval", settings.Interval,
	)

	for attempt := session.Next(); attempt > 0; attempt = session.Next() {
		h.logger.Info("health check attempt", "attempt", attempt, "of", session.MaxRetries)

		if h.attempt(ctx, url) {
			return health.ResultHealthy
		}

		if h.expired(session) {
			return health.ResultUnhealthy
		}

		if session.HasRemaining() {
			h.logger.Info("waiting before retry", "interval", settings.Interval)
			if err := h.sleep(ctx, settings.Interval); err != nil {
				h.logger.Error("health check cancelled", "error", err)
				return health.ResultUnhealthy
			}
			if h.expired(session) {
				return health.ResultUnhealthy
			}
		}
	}

	h.logger.Error("health check failed", "attempts", session.Attempts)
	return health.ResultUnhealthy
}

// attempt performs one GET and reports whether it returned 200.
func (h *HealthChecker) attempt(ctx context.Context, url string) bool {
	status, err := h.getter.Get(ctx, url)
	if err != nil {
		h.logger.Warn("health check request failed", "error", err)
		return false
	}
	if status != http.StatusOK {
		h.logger.Warn("health check returned unexpected status", "status", status)
		return false
	}
	h.logger.Info("health check passed", "status", status)
	return true
}

func (h *HealthChecker) expired(session *health.Session) bool {
	now := h.now()
	if !session.Expired(now) {
		return false
	}
	h.logger.Error("health check timed out",
		"elapsed", session.Elapsed(now),
		"timeout", session.Timeout,
	)
	return true
}
