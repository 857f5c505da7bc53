package dokploy

// =============================================================================
// Resource Types
// =============================================================================

// Project groups environments on the platform.
type Project struct {
	ProjectID    string        `json:"projectId"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Environments []Environment `json:"environments,omitempty"`
}

// FindEnvironment returns the environment with the given name, or nil.
func (p Project) FindEnvironment(name string) *Environment {
	for i := range p.Environments {
		if p.Environments[i].Name == name {
			return &p.Environments[i]
		}
	}
	return nil
}

// Environment groups applications inside a project.
type Environment struct {
	EnvironmentID string        `json:"environmentId"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	ProjectID     string        `json:"projectId"`
	Applications  []Application `json:"applications,omitempty"`
}

// FindApplication returns the application with the given name, or nil.
func (e Environment) FindApplication(name string) *Application {
	for i := range e.Applications {
		if e.Applications[i].Name == name {
			return &e.Applications[i]
		}
	}
	return nil
}

// Application is a deployable service.
type Application struct {
	ApplicationID     string `json:"applicationId"`
	Name              string `json:"name"`
	AppName           string `json:"appName,omitempty"`
	EnvironmentID     string `json:"environmentId,omitempty"`
	ServerID          string `json:"serverId,omitempty"`
	ApplicationStatus string `json:"applicationStatus,omitempty"`
}

// Server is a remote host applications can be scheduled on.
type Server struct {
	ServerID  string `json:"serverId"`
	Name      string `json:"name"`
	IPAddress string `json:"ipAddress,omitempty"`
}

// Domain routes a host to an application.
type Domain struct {
	DomainID      string `json:"domainId"`
	Host          string `json:"host"`
	Path          string `json:"path,omitempty"`
	Port          int    `json:"port,omitempty"`
	HTTPS         bool   `json:"https"`
	ApplicationID string `json:"applicationId,omitempty"`
}

// DeploymentStatus is the platform's build/deploy state.
type DeploymentStatus string

const (
	DeploymentStatusRunning DeploymentStatus = "running"
	DeploymentStatusDone    DeploymentStatus = "done"
	DeploymentStatusError   DeploymentStatus = "error"
)

// Deployment is one deploy run of an application.
type Deployment struct {
	DeploymentID string           `json:"deploymentId"`
	Title        string           `json:"title,omitempty"`
	Description  string           `json:"description,omitempty"`
	Status       DeploymentStatus `json:"status"`
	CreatedAt    string           `json:"createdAt,omitempty"`
}

// DockerProvider configures the image an application runs.
type DockerProvider struct {
	ApplicationID string `json:"applicationId"`
	DockerImage   string `json:"dockerImage"`
	RegistryURL   string `json:"registryUrl,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
}
