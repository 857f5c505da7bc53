package inputs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
)

// Lookup returns the raw value of the named input, or "" when it is not set.
type Lookup func(name string) string

// Input names.
const (
	DokployURL             = "dokploy-url"
	APIKey                 = "api-key"
	DockerImage            = "docker-image"
	ProjectID              = "project-id"
	ProjectName            = "project-name"
	ProjectDescription     = "project-description"
	EnvironmentID          = "environment-id"
	EnvironmentName        = "environment-name"
	AutoCreateResources    = "auto-create-resources"
	ApplicationID          = "application-id"
	ApplicationName        = "application-name"
	ApplicationTitle       = "application-title"
	ApplicationDescription = "application-description"
	ContainerName          = "container-name"
	ServerID               = "server-id"
	ServerName             = "server-name"
	MemoryLimit            = "memory-limit"
	MemoryReservation      = "memory-reservation"
	CPULimit               = "cpu-limit"
	CPUReservation         = "cpu-reservation"
	Port                   = "port"
	TargetPort             = "target-port"
	RestartPolicy          = "restart-policy"
	Replicas               = "replicas"
	MinReplicas            = "min-replicas"
	MaxReplicas            = "max-replicas"
	EnableAutoScaling      = "enable-auto-scaling"
	RegistryURL            = "registry-url"
	RegistryUsername       = "registry-username"
	RegistryPassword       = "registry-password"
	Env                    = "env"
	EnvFile                = "env-file"
	EnvFromJSON            = "env-from-json"
	DomainHost             = "domain-host"
	DomainPath             = "domain-path"
	DomainPort             = "domain-port"
	DomainHTTPS            = "domain-https"
	SSLCertificateType     = "ssl-certificate-type"
	DomainStripPath        = "domain-strip-path"
	ForceDomainRecreation  = "force-domain-recreation"
	DeploymentTitle        = "deployment-title"
	DeploymentDescription  = "deployment-description"
	WaitForDeployment      = "wait-for-deployment"
	DeploymentTimeout      = "deployment-timeout"
	RollbackActive         = "rollback-active"
	CleanupOldContainers   = "cleanup-old-containers"
	HealthCheckEnabled     = "health-check-enabled"
	HealthCheckURL         = "health-check-url"
	HealthCheckTimeout     = "health-check-timeout"
	HealthCheckRetries     = "health-check-retries"
	HealthCheckInterval    = "health-check-interval"
	HealthCheckReqTimeout  = "health-check-request-timeout"
	DebugMode              = "debug-mode"
	LogAPIRequests         = "log-api-requests"
	LogAPIResponses        = "log-api-responses"
)

// Names lists every input in declaration order.
var Names = []string{
	DokployURL, APIKey, DockerImage,
	ProjectID, ProjectName, ProjectDescription, EnvironmentID, EnvironmentName, AutoCreateResources,
	ApplicationID, ApplicationName, ApplicationTitle, ApplicationDescription, ContainerName,
	ServerID, ServerName,
	MemoryLimit, MemoryReservation, CPULimit, CPUReservation, Port, TargetPort, RestartPolicy,
	Replicas, MinReplicas, MaxReplicas, EnableAutoScaling,
	RegistryURL, RegistryUsername, RegistryPassword,
	Env, EnvFile, EnvFromJSON,
	DomainHost, DomainPath, DomainPort, DomainHTTPS, SSLCertificateType, DomainStripPath, ForceDomainRecreation,
	DeploymentTitle, DeploymentDescription, WaitForDeployment, DeploymentTimeout,
	RollbackActive, CleanupOldContainers,
	HealthCheckEnabled, HealthCheckURL, HealthCheckTimeout, HealthCheckRetries, HealthCheckInterval, HealthCheckReqTimeout,
	DebugMode, LogAPIRequests, LogAPIResponses,
}

// =============================================================================
// Parse
// =============================================================================

// Parse reads every input through get and builds the run's Inputs.
//
// Values are trimmed; blank values count as absent. dokploy-url, api-key and
// docker-image are required. Unparsable numbers or booleans do not stop
// parsing: all failures are joined into the returned error, each one a
// *domain.ConfigurationError.
func Parse(get Lookup) (domain.Inputs, error) {
	p := &parser{get: get}

	in := domain.Inputs{
		DokployURL:  p.required(DokployURL),
		APIKey:      p.required(APIKey),
		DockerImage: p.required(DockerImage),

		ProjectID:           p.str(ProjectID),
		ProjectName:         p.str(ProjectName),
		ProjectDescription:  p.str(ProjectDescription),
		EnvironmentID:       p.str(EnvironmentID),
		EnvironmentName:     domain.ValueOr(p.str(EnvironmentName), domain.DefaultEnvironmentName),
		AutoCreateResources: domain.ValueOr(p.boolean(AutoCreateResources), true),

		ApplicationID:          p.str(ApplicationID),
		ApplicationName:        p.str(ApplicationName),
		ApplicationTitle:       p.str(ApplicationTitle),
		ApplicationDescription: p.str(ApplicationDescription),
		ContainerName:          p.str(ContainerName),

		ServerID:   p.str(ServerID),
		ServerName: p.str(ServerName),

		MemoryLimit:       p.memory(MemoryLimit),
		MemoryReservation: p.memory(MemoryReservation),
		CPULimit:          p.cpu(CPULimit),
		CPUReservation:    p.cpu(CPUReservation),
		Port:              p.integer(Port),
		TargetPort:        p.integer(TargetPort),
		RestartPolicy:     p.str(RestartPolicy),

		Replicas:          p.integer(Replicas),
		MinReplicas:       p.integer(MinReplicas),
		MaxReplicas:       p.integer(MaxReplicas),
		EnableAutoScaling: p.boolean(EnableAutoScaling),

		RegistryURL:      domain.ValueOr(p.str(RegistryURL), domain.DefaultRegistryURL),
		RegistryUsername: p.str(RegistryUsername),
		RegistryPassword: p.str(RegistryPassword),

		Env:         p.raw(Env),
		EnvFile:     p.str(EnvFile),
		EnvFromJSON: p.str(EnvFromJSON),

		DomainHost:            p.str(DomainHost),
		DomainPath:            p.str(DomainPath),
		DomainPort:            p.integer(DomainPort),
		DomainHTTPS:           p.boolean(DomainHTTPS),
		SSLCertificateType:    p.str(SSLCertificateType),
		DomainStripPath:       p.boolean(DomainStripPath),
		ForceDomainRecreation: domain.ValueOr(p.boolean(ForceDomainRecreation), false),

		DeploymentTitle:       p.str(DeploymentTitle),
		DeploymentDescription: p.str(DeploymentDescription),
		WaitForDeployment:     domain.ValueOr(p.boolean(WaitForDeployment), true),
		DeploymentTimeout:     p.integer(DeploymentTimeout),
		RollbackActive:        p.boolean(RollbackActive),
		CleanupOldContainers:  p.boolean(CleanupOldContainers),

		HealthCheckEnabled:        domain.ValueOr(p.boolean(HealthCheckEnabled), true),
		HealthCheckPath:           p.str(HealthCheckURL),
		HealthCheckTimeout:        p.integer(HealthCheckTimeout),
		HealthCheckRetries:        p.integer(HealthCheckRetries),
		HealthCheckInterval:       p.integer(HealthCheckInterval),
		HealthCheckRequestTimeout: p.integer(HealthCheckReqTimeout),

		DebugMode:       domain.ValueOr(p.boolean(DebugMode), false),
		LogAPIRequests:  domain.ValueOr(p.boolean(LogAPIRequests), false),
		LogAPIResponses: domain.ValueOr(p.boolean(LogAPIResponses), false),
	}

	return in, errors.Join(p.errs...)
}

// =============================================================================
// Field Parsers
// =============================================================================

type parser struct {
	get  Lookup
	errs []error
}

func (p *parser) fail(field, message string, err error) {
	p.errs = append(p.errs, domain.NewConfigurationError(field, message, err))
}

func (p *parser) required(name string) string {
	v := strings.TrimSpace(p.get(name))
	if v == "" {
		p.fail(name, "input required and not supplied", domain.ErrRequiredInput)
	}
	return v
}

func (p *parser) str(name string) *string {
	v := strings.TrimSpace(p.get(name))
	if v == "" {
		return nil
	}
	return &v
}

// raw keeps inner whitespace and newlines, trimming only the ends.
func (p *parser) raw(name string) *string {
	v := p.get(name)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func (p *parser) integer(name string) *int {
	v := p.str(name)
	if v == nil {
		return nil
	}
	n, err := ParseInt(*v)
	if err != nil {
		p.fail(name, err.Error(), domain.ErrInvalidNumber)
		return nil
	}
	return &n
}

func (p *parser) boolean(name string) *bool {
	v := p.str(name)
	if v == nil {
		return nil
	}
	b, err := ParseBool(*v)
	if err != nil {
		p.fail(name, err.Error(), domain.ErrInvalidBoolean)
		return nil
	}
	return &b
}

func (p *parser) memory(name string) *int {
	v := p.str(name)
	if v == nil {
		return nil
	}
	mb, err := ParseMemory(*v)
	if err != nil {
		p.fail(name, err.Error(), domain.ErrInvalidNumber)
		return nil
	}
	return &mb
}

func (p *parser) cpu(name string) *float64 {
	v := p.str(name)
	if v == nil {
		return nil
	}
	cores, err := ParseCPU(*v)
	if err != nil {
		p.fail(name, err.Error(), domain.ErrInvalidNumber)
		return nil
	}
	return &cores
}

// =============================================================================
// Value Parsers
// =============================================================================

// ParseInt parses a base-10 integer. Trailing garbage is rejected.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

// ParseBool accepts "true" or "false" in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q, expected true or false", s)
	}
}

// ParseCPU parses a CPU amount in cores. A trailing "m" or "M" means
// millicores.
//
// Example:
//
//	ParseCPU("0.5")  // 0.5
//	ParseCPU("250m") // 0.25
func ParseCPU(s string) (float64, error) {
	v := strings.TrimSpace(s)
	scale := 1.0
	if strings.HasSuffix(strings.ToLower(v), "m") {
		v = v[:len(v)-1]
		scale = 1000
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid CPU amount %q", s)
	}
	return f / scale, nil
}

// ParseMemory parses a memory amount in MB. A plain integer is taken as MB;
// anything else is read as a size with a binary unit suffix and truncated to
// whole MB.
//
// Example:
//
//	ParseMemory("512")   // 512
//	ParseMemory("1g")    // 1024
//	ParseMemory("256MiB") // 256
func ParseMemory(s string) (int, error) {
	v := strings.TrimSpace(s)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	bytes, err := units.RAMInBytes(v)
	if err != nil {
		return 0, fmt.Errorf("invalid memory amount %q", s)
	}
	return int(bytes / units.MiB), nil
}
