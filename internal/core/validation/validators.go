package validation

import (
	"regexp"
	"strings"

	"github.com/distribution/reference"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Constraints
// =============================================================================

const (
	// MinMemoryMB is the smallest memory limit the container runtime accepts.
	MinMemoryMB = 4

	// MinCPUCores is the smallest CPU share that can be expressed (one millicore).
	MinCPUCores = 0.001

	MinPort = 1
	MaxPort = 65535

	// MaxDNSLabelLength is the RFC 1123 label length limit.
	MaxDNSLabelLength = 63

	// MaxHostnameLength is the RFC 1123 hostname length limit.
	MaxHostnameLength = 253
)

var (
	dnsLabelRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

	hostValidator = validator.New()
)

// =============================================================================
// Single-Field Validators
// =============================================================================

// ValidateMemory checks a memory value in megabytes.
// Returns nil when value is nil or at least MinMemoryMB.
func ValidateMemory(value *int, field string) error {
	if value == nil {
		return nil
	}
	if *value < MinMemoryMB {
		return NewValidationError(field, "%s must be at least %dMB, got: %dMB", field, MinMemoryMB, *value)
	}
	return nil
}

// ValidateCPU checks a CPU value in fractional cores.
// Returns nil when value is nil or at least MinCPUCores.
func ValidateCPU(value *float64, field string) error {
	if value == nil {
		return nil
	}
	if *value < MinCPUCores {
		return NewValidationError(field, "%s must be at least %g cores, got: %g", field, MinCPUCores, *value)
	}
	return nil
}

// ValidateDNSName checks that a name is a single RFC 1123 DNS label:
// lowercase letters, digits and hyphens, 1-63 characters, no leading or
// trailing hyphen.
//
// Example:
//
//	ValidateDNSName(ptr("my-app"), "application-name")   // nil
//	ValidateDNSName(ptr("My_App"), "application-name")   // *ValidationError
func ValidateDNSName(value *string, field string) error {
	if value == nil {
		return nil
	}
	name := *value
	if len(name) > MaxDNSLabelLength {
		return NewValidationError(field, "%s must be at most %d characters, got: %d", field, MaxDNSLabelLength, len(name))
	}
	if !dnsLabelRegex.MatchString(name) {
		return NewValidationError(field,
			"%s must contain only lowercase letters, digits and hyphens, and must start and end with a letter or digit, got: %q",
			field, name)
	}
	return nil
}

// ValidatePort checks that a port is within [MinPort, MaxPort].
func ValidatePort(value *int, field string) error {
	if value == nil {
		return nil
	}
	if *value < MinPort || *value > MaxPort {
		return NewValidationError(field, "%s must be between %d and %d, got: %d", field, MinPort, MaxPort, *value)
	}
	return nil
}

// ValidateReplicas checks that a replica count is not negative.
func ValidateReplicas(value *int, field string) error {
	if value == nil {
		return nil
	}
	if *value < 0 {
		return NewValidationError(field, "%s must not be negative, got: %d", field, *value)
	}
	return nil
}

// ValidateDomainHost checks that a host is a fully qualified hostname with at
// least two labels. Schemes, paths, ports and underscores are rejected.
func ValidateDomainHost(value *string, field string) error {
	if value == nil {
		return nil
	}
	host := *value
	if len(host) > MaxHostnameLength {
		return NewValidationError(field, "%s must be at most %d characters, got: %d", field, MaxHostnameLength, len(host))
	}
	if hostValidator.Var(host, "hostname_rfc1123") != nil || !hasDNSLabels(host) {
		return NewValidationError(field, "%s must be a valid domain name (e.g. app.example.com), got: %q", field, host)
	}
	return nil
}

// hasDNSLabels reports whether host has at least two dot-separated labels and
// every label is a valid DNS label, compared case-insensitively.
func hasDNSLabels(host string) bool {
	labels := strings.Split(strings.ToLower(host), ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !dnsLabelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

// ValidateDockerImage checks that an image reference is present, parses as a
// registry reference and carries an explicit tag.
//
// Example:
//
//	ValidateDockerImage("ghcr.io/org/app:v1.2.0", "docker-image") // nil
//	ValidateDockerImage("nginx", "docker-image")                  // *ValidationError (no tag)
func ValidateDockerImage(value string, field string) error {
	if value == "" {
		return NewValidationError(field, "%s is required", field)
	}
	named, err := reference.ParseNormalizedNamed(value)
	if err != nil {
		return NewValidationError(field, "%s is not a valid image reference (%v), got: %q", field, err, value)
	}
	if _, ok := named.(reference.Tagged); !ok {
		return NewValidationError(field, "%s must include a tag (e.g. nginx:latest), got: %q", field, value)
	}
	return nil
}

// ImageName returns the last path segment of an image repository, which makes
// a reasonable default application name.
//
// Example:
//
//	ImageName("ghcr.io/org/web-api:v1") // returns "web-api"
func ImageName(image string) string {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return ""
	}
	path := reference.Path(named)
	return path[strings.LastIndex(path, "/")+1:]
}
