// Package health provides pure types and decisions for post-deployment health
// checks. It contains no I/O; internal/shell/workers performs the requests.
package health

import (
	"time"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one health check run.
type Result string

const (
	ResultHealthy   Result = "healthy"
	ResultUnhealthy Result = "unhealthy"
	ResultSkipped   Result = "skipped"
)

// ShouldFail reports whether the result must fail the run. Only an unhealthy
// result does; a skipped check never fails a deployment.
func (r Result) ShouldFail() bool {
	return r == ResultUnhealthy
}

func (r Result) String() string {
	return string(r)
}

// =============================================================================
// Settings
// =============================================================================

const (
	DefaultPath           = "/health"
	DefaultTimeout        = 60 * time.Second
	DefaultRetries        = 3
	DefaultInterval       = 10 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Settings bounds one health check run.
type Settings struct {
	Enabled bool

	// Path is appended verbatim to the deployment URL.
	Path string

	// Timeout is the total wall-clock budget, measured from the first attempt.
	Timeout time.Duration

	// Retries is the maximum number of attempts.
	Retries int

	// Interval is the pause between a failed attempt and the next one.
	Interval time.Duration

	// RequestTimeout bounds a single GET.
	RequestTimeout time.Duration
}

// DefaultSettings returns enabled settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Enabled:        true,
		Path:           DefaultPath,
		Timeout:        DefaultTimeout,
		Retries:        DefaultRetries,
		Interval:       DefaultInterval,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// SettingsFromInputs derives settings from the step inputs.
// Absent, zero or negative numbers fall back to their defaults.
func SettingsFromInputs(in domain.Inputs) Settings {
	s := DefaultSettings()
	s.Enabled = in.HealthCheckEnabled
	if in.HealthCheckPath != nil && *in.HealthCheckPath != "" {
		s.Path = *in.HealthCheckPath
	}
	if v := positive(in.HealthCheckTimeout); v > 0 {
		s.Timeout = time.Duration(v) * time.Second
	}
	if v := positive(in.HealthCheckRetries); v > 0 {
		s.Retries = v
	}
	if v := positive(in.HealthCheckInterval); v > 0 {
		s.Interval = time.Duration(v) * time.Second
	}
	if v := positive(in.HealthCheckRequestTimeout); v > 0 {
		s.RequestTimeout = time.Duration(v) * time.Second
	}
	return s
}

// CheckURL joins the deployment URL and the check path exactly, without
// adding or removing separators.
//
// Example:
//
//	CheckURL("https://app.example.com", "/api/status") // "https://app.example.com/api/status"
func CheckURL(deploymentURL, path string) string {
	return deploymentURL + path
}

func positive(p *int) int {
	if p == nil || *p <= 0 {
		return 0
	}
	return *p
}
