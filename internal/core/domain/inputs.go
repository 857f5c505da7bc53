package domain

// =============================================================================
// Deployment Inputs
// =============================================================================

// Default values applied while reading step inputs.
const (
	DefaultEnvironmentName = "production"
	DefaultRegistryURL     = "ghcr.io"
)

// Inputs is the flat record of step inputs for one deployment run.
//
// Every optional field is a pointer: nil means the input was not supplied,
// which is distinct from a supplied but invalid value. Validators and
// builders never look at absent fields.
type Inputs struct {
	// Core
	DokployURL  string
	APIKey      string
	DockerImage string

	// Project & environment
	ProjectID           *string
	ProjectName         *string
	ProjectDescription  *string
	EnvironmentID       *string
	EnvironmentName     string
	AutoCreateResources bool

	// Application
	ApplicationID          *string
	ApplicationName        *string
	ApplicationTitle       *string
	ApplicationDescription *string
	ContainerName          *string

	// Server
	ServerID   *string
	ServerName *string

	// Resources (memory in MB, CPU in fractional cores)
	MemoryLimit       *int
	MemoryReservation *int
	CPULimit          *float64
	CPUReservation    *float64
	Port              *int
	TargetPort        *int
	RestartPolicy     *string

	// Scaling
	Replicas          *int
	MinReplicas       *int
	MaxReplicas       *int
	EnableAutoScaling *bool

	// Registry
	RegistryURL      string
	RegistryUsername *string
	RegistryPassword *string

	// Environment variables
	Env         *string
	EnvFile     *string
	EnvFromJSON *string

	// Domain & SSL
	DomainHost            *string
	DomainPath            *string
	DomainPort            *int
	DomainHTTPS           *bool
	SSLCertificateType    *string
	DomainStripPath       *bool
	ForceDomainRecreation bool

	// Deployment
	DeploymentTitle       *string
	DeploymentDescription *string
	WaitForDeployment     bool
	DeploymentTimeout     *int // seconds

	// Accepted for workflow compatibility; the platform handles rollback
	// and container cleanup itself.
	RollbackActive       *bool
	CleanupOldContainers *bool

	// Health check
	HealthCheckEnabled        bool
	HealthCheckPath           *string
	HealthCheckTimeout        *int // seconds
	HealthCheckRetries        *int
	HealthCheckInterval       *int // seconds
	HealthCheckRequestTimeout *int // seconds

	// Debug
	DebugMode       bool
	LogAPIRequests  bool
	LogAPIResponses bool
}

// Secrets returns the supplied secret values that must be masked in CI logs.
func (in Inputs) Secrets() []string {
	secrets := []string{}
	if in.APIKey != "" {
		secrets = append(secrets, in.APIKey)
	}
	if in.RegistryPassword != nil && *in.RegistryPassword != "" {
		secrets = append(secrets, *in.RegistryPassword)
	}
	return secrets
}

// =============================================================================
// Optional Value Helpers
// =============================================================================

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr returns *p, or fallback when p is nil.
func ValueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
