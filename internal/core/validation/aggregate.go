package validation

import "github.com/artpar/dokploy-deploy/internal/core/domain"

// =============================================================================
// Aggregate Validation
// =============================================================================

// ValidateAll runs every field validator over the inputs and returns a
// *ValidationErrors listing all violations, or nil if there are none.
//
// Checks never stop at the first failure. The check order is fixed so the
// aggregated message is reproducible:
//
//	docker-image, application-name, project-name, environment-name,
//	memory-limit, memory-reservation, cpu-limit, cpu-reservation,
//	port, target-port, domain-port, replicas, min-replicas, max-replicas,
//	domain-host
func ValidateAll(in domain.Inputs) error {
	var c collector

	c.check(ValidateDockerImage(in.DockerImage, "docker-image"))

	c.check(ValidateDNSName(in.ApplicationName, "application-name"))
	c.check(ValidateDNSName(in.ProjectName, "project-name"))
	c.check(ValidateDNSName(optionalString(in.EnvironmentName), "environment-name"))

	c.check(ValidateMemory(in.MemoryLimit, "memory-limit"))
	c.check(ValidateMemory(in.MemoryReservation, "memory-reservation"))
	c.check(ValidateCPU(in.CPULimit, "cpu-limit"))
	c.check(ValidateCPU(in.CPUReservation, "cpu-reservation"))

	c.check(ValidatePort(in.Port, "port"))
	c.check(ValidatePort(in.TargetPort, "target-port"))
	c.check(ValidatePort(in.DomainPort, "domain-port"))

	c.check(ValidateReplicas(in.Replicas, "replicas"))
	c.check(ValidateReplicas(in.MinReplicas, "min-replicas"))
	c.check(ValidateReplicas(in.MaxReplicas, "max-replicas"))

	c.check(ValidateDomainHost(in.DomainHost, "domain-host"))

	return c.err()
}

// optionalString treats the empty string as absent.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
