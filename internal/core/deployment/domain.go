package deployment

import (
	"strings"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// =============================================================================
// Domain Payload
// =============================================================================

// BuildDomainConfig builds the domain payload, or returns nil when no
// domain-host was supplied.
//
// Defaults:
//   - path "/"
//   - port: domain-port, else target-port, else 8080
//   - https enabled unless domain-https is explicitly false
//   - certificate type "letsencrypt"
//   - strip path disabled
func BuildDomainConfig(in domain.Inputs) *DomainConfig {
	if in.DomainHost == nil || *in.DomainHost == "" {
		return nil
	}

	port := DefaultPort
	switch {
	case in.DomainPort != nil:
		port = *in.DomainPort
	case in.TargetPort != nil:
		port = *in.TargetPort
	}

	return &DomainConfig{
		Host:            *in.DomainHost,
		Path:            nonEmptyOr(in.DomainPath, DefaultDomainPath),
		Port:            port,
		HTTPS:           domain.ValueOr(in.DomainHTTPS, true),
		CertificateType: nonEmptyOr(in.SSLCertificateType, DefaultCertificateType),
		DomainType:      DomainTypeApplication,
		StripPath:       domain.ValueOr(in.DomainStripPath, false),
	}
}

// DeploymentURL returns the public base URL served by a domain, without a
// trailing slash. Returns "" for a nil domain.
//
// Example:
//
//	DeploymentURL(&DomainConfig{Host: "app.example.com", Path: "/", HTTPS: true})
//	// returns "https://app.example.com"
func DeploymentURL(d *DomainConfig) string {
	if d == nil {
		return ""
	}
	scheme := "http"
	if d.HTTPS {
		scheme = "https"
	}
	path := strings.TrimSuffix(d.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + d.Host + path
}
