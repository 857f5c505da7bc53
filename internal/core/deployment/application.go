package deployment

import (
	"fmt"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// =============================================================================
// Application Payload
// =============================================================================

// BuildApplicationConfig builds the application payload for name.
//
// Title defaults to name, description to "Automated deployment: {name}",
// ports to 8080 and the restart policy to "unless-stopped". Container name,
// memory and CPU limits/reservations and replicas are only set when supplied.
//
// Example:
//
//	cfg := BuildApplicationConfig("web", ResolvedIDs{ProjectID: "p1", EnvironmentID: "e1"}, inputs)
//	// cfg.Title == "web", cfg.Port == 8080, cfg.MemoryLimit == nil
func BuildApplicationConfig(name string, ids ResolvedIDs, in domain.Inputs) ApplicationConfig {
	cfg := ApplicationConfig{
		Name:              name,
		ProjectID:         ids.ProjectID,
		EnvironmentID:     ids.EnvironmentID,
		ServerID:          ids.ServerID,
		ApplicationStatus: DefaultApplicationStatus,
		Title:             nonEmptyOr(in.ApplicationTitle, name),
		Description:       nonEmptyOr(in.ApplicationDescription, fmt.Sprintf("Automated deployment: %s", name)),
		Port:              domain.ValueOr(in.Port, DefaultPort),
		TargetPort:        domain.ValueOr(in.TargetPort, DefaultPort),
		RestartPolicy:     nonEmptyOr(in.RestartPolicy, DefaultRestartPolicy),
	}

	if in.ContainerName != nil && *in.ContainerName != "" {
		cfg.AppName = domain.Ptr(*in.ContainerName)
	}
	cfg.MemoryLimit = clone(in.MemoryLimit)
	cfg.MemoryReservation = clone(in.MemoryReservation)
	cfg.CPULimit = clone(in.CPULimit)
	cfg.CPUReservation = clone(in.CPUReservation)
	cfg.Replicas = clone(in.Replicas)

	return cfg
}

// nonEmptyOr returns *p unless it is nil or empty.
func nonEmptyOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

// clone copies an optional value so the payload never aliases the inputs.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return domain.Ptr(*p)
}
