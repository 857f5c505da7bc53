package deployment

// =============================================================================
// Defaults
// =============================================================================

const (
	DefaultPort              = 8080
	DefaultApplicationStatus = "idle"
	DefaultRestartPolicy     = "unless-stopped"
	DefaultDomainPath        = "/"
	DefaultCertificateType   = "letsencrypt"
	DomainTypeApplication    = "application"
)

// =============================================================================
// Payload Types
// =============================================================================

// ResolvedIDs holds the platform identifiers resolved before the application
// payload can be built.
type ResolvedIDs struct {
	ProjectID     string
	EnvironmentID string
	ServerID      string
}

// ApplicationConfig is the application payload sent on create and update.
//
// Pointer fields are optional: they are nil unless the matching input was
// supplied, and nil fields are left out of the JSON body entirely.
type ApplicationConfig struct {
	Name              string `json:"name"`
	ProjectID         string `json:"projectId"`
	EnvironmentID     string `json:"environmentId"`
	ServerID          string `json:"serverId,omitempty"`
	ApplicationStatus string `json:"applicationStatus"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Port              int    `json:"port"`
	TargetPort        int    `json:"targetPort"`
	RestartPolicy     string `json:"restartPolicy"`

	AppName           *string  `json:"appName,omitempty"`
	MemoryLimit       *int     `json:"memoryLimit,omitempty"`
	MemoryReservation *int     `json:"memoryReservation,omitempty"`
	CPULimit          *float64 `json:"cpuLimit,omitempty"`
	CPUReservation    *float64 `json:"cpuReservation,omitempty"`
	Replicas          *int     `json:"replicas,omitempty"`
}

// DomainConfig is the domain payload routed to an application.
type DomainConfig struct {
	Host            string `json:"host"`
	Path            string `json:"path"`
	Port            int    `json:"port"`
	HTTPS           bool   `json:"https"`
	CertificateType string `json:"certificateType"`
	DomainType      string `json:"domainType"`
	StripPath       bool   `json:"stripPath"`
}
