package deployer

import (
	"github.com/artpar/dokploy-deploy/internal/core/health"
)

// =============================================================================
// Run Report
// =============================================================================

// Status is the outcome of the platform deployment itself.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Output names.
const (
	OutputProjectID         = "project-id"
	OutputEnvironmentID     = "environment-id"
	OutputServerID          = "server-id"
	OutputApplicationID     = "application-id"
	OutputDomainID          = "domain-id"
	OutputDeploymentURL     = "deployment-url"
	OutputDeploymentStatus  = "deployment-status"
	OutputHealthCheckStatus = "health-check-status"
)

// Report collects what a run resolved and how it ended. Fields stay empty for
// steps the run never reached.
type Report struct {
	ProjectID     string
	EnvironmentID string
	ServerID      string
	ApplicationID string
	DomainID      string
	DeploymentID  string
	DeploymentURL string

	DeploymentStatus Status
	Health           health.Result
}

// Outputs returns the step outputs. Empty values are included and left for
// the writer to drop.
func (r *Report) Outputs() map[string]string {
	return map[string]string{
		OutputProjectID:         r.ProjectID,
		OutputEnvironmentID:     r.EnvironmentID,
		OutputServerID:          r.ServerID,
		OutputApplicationID:     r.ApplicationID,
		OutputDomainID:          r.DomainID,
		OutputDeploymentURL:     r.DeploymentURL,
		OutputDeploymentStatus:  string(r.DeploymentStatus),
		OutputHealthCheckStatus: string(r.Health),
	}
}

// Failed reports whether the step should fail: the deployment failed or the
// application answered the health check as unhealthy.
func (r *Report) Failed() bool {
	return r.DeploymentStatus == StatusFailed || r.Health.ShouldFail()
}
