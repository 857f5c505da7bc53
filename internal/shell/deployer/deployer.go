// Package deployer runs one deployment end to end: it validates the inputs,
// resolves or creates the platform resources, triggers the deployment, waits
// for it and health checks the result.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/artpar/dokploy-deploy/internal/core/deployment"
	"github.com/artpar/dokploy-deploy/internal/core/domain"
	"github.com/artpar/dokploy-deploy/internal/core/health"
	"github.com/artpar/dokploy-deploy/internal/core/validation"
	"github.com/artpar/dokploy-deploy/internal/shell/actions"
	"github.com/artpar/dokploy-deploy/internal/shell/dokploy"
	"github.com/artpar/dokploy-deploy/internal/shell/workers"
)

// =============================================================================
// Platform
// =============================================================================

// Platform is the subset of the Dokploy API a run uses.
// *dokploy.Client implements it.
type Platform interface {
	GetProject(ctx context.Context, projectID string) (*dokploy.Project, error)
	FindProjectByName(ctx context.Context, name string) (*dokploy.Project, error)
	CreateProject(ctx context.Context, name, description string) (*dokploy.Project, *dokploy.Environment, error)
	CreateEnvironment(ctx context.Context, projectID, name, description string) (*dokploy.Environment, error)
	ResolveServerID(ctx context.Context, serverID, serverName string) (string, error)
	CreateApplication(ctx context.Context, cfg deployment.ApplicationConfig) (*dokploy.Application, error)
	UpdateApplication(ctx context.Context, applicationID string, cfg deployment.ApplicationConfig) error
	SaveDockerProvider(ctx context.Context, provider dokploy.DockerProvider) error
	SaveEnvironment(ctx context.Context, applicationID, env string) error
	ListDomains(ctx context.Context, applicationID string) ([]dokploy.Domain, error)
	CreateDomain(ctx context.Context, applicationID string, cfg deployment.DomainConfig) (*dokploy.Domain, error)
	DeleteDomain(ctx context.Context, domainID string) error
	DeployApplication(ctx context.Context, applicationID, title, description string) error
	ListDeployments(ctx context.Context, applicationID string) ([]dokploy.Deployment, error)
}

var _ Platform = (*dokploy.Client)(nil)

// EnvFileLoader reads a dotenv file for the named input.
type EnvFileLoader func(path, field string) (map[string]string, error)

// =============================================================================
// Deployer
// =============================================================================

// Deployer runs deployments against one platform.
type Deployer struct {
	platform     Platform
	getter       workers.Getter
	sleep        workers.Sleeper
	now          workers.Clock
	loadEnvFile  EnvFileLoader
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option customizes a Deployer.
type Option func(*Deployer)

// WithGetter replaces the health check HTTP getter. By default one is built
// per run with the configured request timeout.
func WithGetter(g workers.Getter) Option {
	return func(d *Deployer) { d.getter = g }
}

// WithSleeper replaces the wait used by the deployment waiter and the health checker.
func WithSleeper(s workers.Sleeper) Option {
	return func(d *Deployer) { d.sleep = s }
}

// WithClock replaces the clock used by the deployment waiter and the health checker.
func WithClock(c workers.Clock) Option {
	return func(d *Deployer) { d.now = c }
}

// WithEnvFileLoader replaces how env-file is read.
func WithEnvFileLoader(l EnvFileLoader) Option {
	return func(d *Deployer) { d.loadEnvFile = l }
}

// WithPollInterval sets how often deployment status is polled.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Deployer) { d.pollInterval = interval }
}

// New creates a new Deployer.
func New(platform Platform, logger *slog.Logger, opts ...Option) *Deployer {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Deployer{
		platform:     platform,
		sleep:        workers.SleepContext,
		now:          time.Now,
		loadEnvFile:  actions.LoadEnvFile,
		pollInterval: workers.DefaultDeploymentInterval,
		logger:       logger.With("component", "deployer"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run performs one deployment.
//
// Invalid inputs and a malformed environment abort before any platform call
// and return a nil report. Once the platform has been touched, the report is
// always returned, carrying whatever was resolved so far. A failed or timed
// out deployment returns the report with an error wrapping
// workers.ErrDeploymentFailed or workers.ErrDeploymentTimeout; an unhealthy
// application returns it with ErrUnhealthy.
func (d *Deployer) Run(ctx context.Context, in domain.Inputs) (*Report, error) {
	if err := validation.ValidateAll(in); err != nil {
		return nil, err
	}

	env, err := d.buildEnvironment(in)
	if err != nil {
		return nil, err
	}

	name := domain.ValueOr(in.ApplicationName, validation.ImageName(in.DockerImage))
	if name == "" {
		return nil, ErrApplicationNameMissing
	}

	report := &Report{Health: health.ResultSkipped}
	logger := d.logger.With("application", name)

	project, presetEnv, err := d.stepProject(ctx, in, logger)
	if err != nil {
		return report, fmt.Errorf("resolve project: %w", err)
	}
	report.ProjectID = project.ProjectID

	environment, err := d.stepEnvironment(ctx, in, project, presetEnv, logger)
	if err != nil {
		return report, fmt.Errorf("resolve environment: %w", err)
	}
	report.EnvironmentID = environment.EnvironmentID

	serverID, err := d.platform.ResolveServerID(ctx, domain.ValueOr(in.ServerID, ""), domain.ValueOr(in.ServerName, ""))
	if err != nil {
		return report, fmt.Errorf("resolve server: %w", err)
	}
	report.ServerID = serverID
	logger.Info("resolved server", "server_id", serverID)

	ids := deployment.ResolvedIDs{
		ProjectID:     project.ProjectID,
		EnvironmentID: environment.EnvironmentID,
		ServerID:      serverID,
	}
	appID, err := d.stepApplication(ctx, in, name, ids, environment, logger)
	if err != nil {
		return report, fmt.Errorf("resolve application: %w", err)
	}
	report.ApplicationID = appID
	logger = logger.With("application_id", appID)

	if err := d.platform.SaveDockerProvider(ctx, dokploy.DockerProvider{
		ApplicationID: appID,
		DockerImage:   in.DockerImage,
		RegistryURL:   in.RegistryURL,
		Username:      domain.ValueOr(in.RegistryUsername, ""),
		Password:      domain.ValueOr(in.RegistryPassword, ""),
	}); err != nil {
		return report, fmt.Errorf("save docker provider: %w", err)
	}
	logger.Info("docker provider saved", "image", in.DockerImage)

	if env != "" {
		if err := d.platform.SaveEnvironment(ctx, appID, env); err != nil {
			return report, fmt.Errorf("save environment: %w", err)
		}
		logger.Info("environment saved")
	}

	domainCfg := deployment.BuildDomainConfig(in)
	if domainCfg != nil {
		domainID, err := d.stepDomain(ctx, in, appID, *domainCfg, logger)
		if err != nil {
			return report, fmt.Errorf("configure domain: %w", err)
		}
		report.DomainID = domainID
	}
	report.DeploymentURL = deployment.DeploymentURL(domainCfg)

	if err := d.stepDeploy(ctx, in, appID, report, logger); err != nil {
		return report, err
	}

	settings := health.SettingsFromInputs(in)
	getter := d.getter
	if getter == nil {
		getter = workers.NewHTTPGetter(settings.RequestTimeout)
	}
	checker := workers.NewHealthChecker(getter,
		workers.HealthCheckerConfig{Settings: settings},
		d.logger,
		workers.WithSleeper(d.sleep),
		workers.WithClock(d.now),
	)
	report.Health = checker.Check(ctx, report.DeploymentURL)
	if report.Health.ShouldFail() {
		return report, ErrUnhealthy
	}

	logger.Info("deployment complete",
		"deployment_url", report.DeploymentURL,
		"health", report.Health,
	)
	return report, nil
}

// buildEnvironment renders the environment blob, reading env-file only when
// no higher precedence source is supplied.
func (d *Deployer) buildEnvironment(in domain.Inputs) (string, error) {
	var fileVars map[string]string
	if in.EnvFromJSON == nil && in.Env == nil && in.EnvFile != nil {
		vars, err := d.loadEnvFile(*in.EnvFile, "env-file")
		if err != nil {
			return "", err
		}
		fileVars = vars
	}
	return deployment.BuildEnvironment(in, fileVars)
}

// =============================================================================
// Steps
// =============================================================================

// stepProject resolves the project by ID, then by name, then creates it.
// A freshly created project may come with its default environment.
func (d *Deployer) stepProject(ctx context.Context, in domain.Inputs, logger *slog.Logger) (*dokploy.Project, *dokploy.Environment, error) {
	if in.ProjectID != nil {
		project, err := d.platform.GetProject(ctx, *in.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using project", "project_id", project.ProjectID)
		return project, nil, nil
	}

	if in.ProjectName == nil {
		return nil, nil, ErrProjectNotSpecified
	}
	name := *in.ProjectName

	project, err := d.platform.FindProjectByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if project != nil {
		logger.Info("found project", "project", name, "project_id", project.ProjectID)
		return project, nil, nil
	}

	if !in.AutoCreateResources {
		return nil, nil, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}

	project, env, err := d.platform.CreateProject(ctx, name, domain.ValueOr(in.ProjectDescription, ""))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("created project", "project", name, "project_id", project.ProjectID)
	return project, env, nil
}

// stepEnvironment resolves the environment by ID, then by name within the
// project (including one created along with the project), then creates it.
func (d *Deployer) stepEnvironment(ctx context.Context, in domain.Inputs, project *dokploy.Project, preset *dokploy.Environment, logger *slog.Logger) (*dokploy.Environment, error) {
	if in.EnvironmentID != nil {
		logger.Info("using environment", "environment_id", *in.EnvironmentID)
		if env := findEnvironmentByID(project, *in.EnvironmentID); env != nil {
			return env, nil
		}
		return &dokploy.Environment{EnvironmentID: *in.EnvironmentID, ProjectID: project.ProjectID}, nil
	}

	name := in.EnvironmentName
	if preset != nil && preset.Name == name {
		logger.Info("using project default environment", "environment", name, "environment_id", preset.EnvironmentID)
		return preset, nil
	}
	if env := project.FindEnvironment(name); env != nil {
		logger.Info("found environment", "environment", name, "environment_id", env.EnvironmentID)
		return env, nil
	}

	if !in.AutoCreateResources {
		return nil, fmt.Errorf("%w: %q in project %s", ErrEnvironmentNotFound, name, project.ProjectID)
	}

	env, err := d.platform.CreateEnvironment(ctx, project.ProjectID, name, "")
	if err != nil {
		return nil, err
	}
	logger.Info("created environment", "environment", name, "environment_id", env.EnvironmentID)
	return env, nil
}

// stepApplication resolves the application by ID, then by name within the
// environment, and updates it with the current config; otherwise it creates it.
func (d *Deployer) stepApplication(ctx context.Context, in domain.Inputs, name string, ids deployment.ResolvedIDs, env *dokploy.Environment, logger *slog.Logger) (string, error) {
	cfg := deployment.BuildApplicationConfig(name, ids, in)

	appID := domain.ValueOr(in.ApplicationID, "")
	if appID == "" {
		if app := env.FindApplication(name); app != nil {
			appID = app.ApplicationID
		}
	}

	if appID != "" {
		if err := d.platform.UpdateApplication(ctx, appID, cfg); err != nil {
			return "", err
		}
		logger.Info("updated application", "application_id", appID)
		return appID, nil
	}

	if !in.AutoCreateResources {
		return "", fmt.Errorf("%w: %q", ErrApplicationNotFound, name)
	}

	app, err := d.platform.CreateApplication(ctx, cfg)
	if err != nil {
		return "", err
	}
	logger.Info("created application", "application_id", app.ApplicationID)
	return app.ApplicationID, nil
}

// stepDomain reuses a domain with the same host, or replaces it when
// force-domain-recreation is set, or creates a new one.
func (d *Deployer) stepDomain(ctx context.Context, in domain.Inputs, appID string, cfg deployment.DomainConfig, logger *slog.Logger) (string, error) {
	domains, err := d.platform.ListDomains(ctx, appID)
	if err != nil {
		return "", err
	}

	for _, existing := range domains {
		if existing.Host != cfg.Host {
			continue
		}
		if !in.ForceDomainRecreation {
			logger.Info("domain already configured", "host", cfg.Host, "domain_id", existing.DomainID)
			return existing.DomainID, nil
		}
		if err := d.platform.DeleteDomain(ctx, existing.DomainID); err != nil {
			return "", err
		}
		logger.Info("deleted domain for recreation", "host", cfg.Host, "domain_id", existing.DomainID)
	}

	created, err := d.platform.CreateDomain(ctx, appID, cfg)
	if err != nil {
		return "", err
	}
	logger.Info("created domain", "host", cfg.Host, "domain_id", created.DomainID)
	return created.DomainID, nil
}

// stepDeploy triggers the deployment and, when asked to, waits for it.
// Without waiting the deployment counts as successful once triggered.
func (d *Deployer) stepDeploy(ctx context.Context, in domain.Inputs, appID string, report *Report, logger *slog.Logger) error {
	var known map[string]struct{}
	if in.WaitForDeployment {
		before, err := d.platform.ListDeployments(ctx, appID)
		if err != nil {
			return fmt.Errorf("list deployments: %w", err)
		}
		known = workers.DeploymentIDs(before)
	}

	title := domain.ValueOr(in.DeploymentTitle, "")
	if err := d.platform.DeployApplication(ctx, appID, title, domain.ValueOr(in.DeploymentDescription, "")); err != nil {
		return fmt.Errorf("deploy application: %w", err)
	}
	logger.Info("deployment triggered", "title", title)

	if !in.WaitForDeployment {
		report.DeploymentStatus = StatusSuccess
		return nil
	}

	timeout := workers.DefaultDeploymentTimeout
	if in.DeploymentTimeout != nil && *in.DeploymentTimeout > 0 {
		timeout = time.Duration(*in.DeploymentTimeout) * time.Second
	}
	waiter := workers.NewDeploymentWaiter(d.platform,
		workers.DeploymentWaiterConfig{Timeout: timeout, PollInterval: d.pollInterval},
		d.logger,
		workers.WithWaiterSleeper(d.sleep),
		workers.WithWaiterClock(d.now),
	)

	dep, err := waiter.Wait(ctx, appID, known)
	report.DeploymentID = dep.DeploymentID
	switch {
	case err == nil:
		report.DeploymentStatus = StatusSuccess
		return nil
	case errors.Is(err, workers.ErrDeploymentFailed), errors.Is(err, workers.ErrDeploymentTimeout):
		report.DeploymentStatus = StatusFailed
		return err
	default:
		report.DeploymentStatus = StatusFailed
		return fmt.Errorf("wait for deployment: %w", err)
	}
}

func findEnvironmentByID(project *dokploy.Project, id string) *dokploy.Environment {
	for i := range project.Environments {
		if project.Environments[i].EnvironmentID == id {
			return &project.Environments[i]
		}
	}
	return nil
}
