package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/dokploy-deploy/internal/core/deployment"
	"github.com/artpar/dokploy-deploy/internal/core/domain"
	"github.com/artpar/dokploy-deploy/internal/core/health"
	"github.com/artpar/dokploy-deploy/internal/core/validation"
	"github.com/artpar/dokploy-deploy/internal/shell/dokploy"
	"github.com/artpar/dokploy-deploy/internal/shell/workers"
)

// =============================================================================
// Fake Platform
// =============================================================================

type fakePlatform struct {
	projects    []dokploy.Project
	servers     []dokploy.Server
	domains     map[string][]dokploy.Domain
	deployments []dokploy.Deployment

	// deployStatus is the status of deployments created by DeployApplication.
	deployStatus dokploy.DeploymentStatus
	// failOn makes the named operation return the error.
	failOn map[string]error

	calls       []string
	nextID      int
	createdApp  *deployment.ApplicationConfig
	updatedApp  *deployment.ApplicationConfig
	provider    *dokploy.DockerProvider
	savedEnv    *string
	deleted     []string
	createdDom  *deployment.DomainConfig
	deployTitle string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		servers:      []dokploy.Server{{ServerID: "srv-1", Name: "edge"}},
		domains:      map[string][]dokploy.Domain{},
		deployStatus: dokploy.DeploymentStatusDone,
		failOn:       map[string]error{},
	}
}

func (f *fakePlatform) call(op string) error {
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakePlatform) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakePlatform) GetProject(ctx context.Context, projectID string) (*dokploy.Project, error) {
	if err := f.call("GetProject"); err != nil {
		return nil, err
	}
	for i := range f.projects {
		if f.projects[i].ProjectID == projectID {
			return &f.projects[i], nil
		}
	}
	return nil, dokploy.NewAPIError("GetProject", "project.all", 0, "missing", dokploy.ErrNotFound)
}

func (f *fakePlatform) FindProjectByName(ctx context.Context, name string) (*dokploy.Project, error) {
	if err := f.call("FindProjectByName"); err != nil {
		return nil, err
	}
	for i := range f.projects {
		if f.projects[i].Name == name {
			return &f.projects[i], nil
		}
	}
	return nil, nil
}

func (f *fakePlatform) CreateProject(ctx context.Context, name, description string) (*dokploy.Project, *dokploy.Environment, error) {
	if err := f.call("CreateProject"); err != nil {
		return nil, nil, err
	}
	p := dokploy.Project{ProjectID: f.id("proj"), Name: name}
	env := dokploy.Environment{EnvironmentID: f.id("env"), Name: "production", ProjectID: p.ProjectID}
	p.Environments = []dokploy.Environment{env}
	f.projects = append(f.projects, p)
	return &p, &env, nil
}

func (f *fakePlatform) CreateEnvironment(ctx context.Context, projectID, name, description string) (*dokploy.Environment, error) {
	if err := f.call("CreateEnvironment"); err != nil {
		return nil, err
	}
	return &dokploy.Environment{EnvironmentID: f.id("env"), Name: name, ProjectID: projectID}, nil
}

func (f *fakePlatform) ResolveServerID(ctx context.Context, serverID, serverName string) (string, error) {
	if err := f.call("ResolveServerID"); err != nil {
		return "", err
	}
	if serverID != "" {
		return serverID, nil
	}
	if serverName == "" {
		return "", dokploy.ErrServerNotSpecified
	}
	for _, s := range f.servers {
		if s.Name == serverName {
			return s.ServerID, nil
		}
	}
	return "", dokploy.ErrServerNotFound
}

func (f *fakePlatform) CreateApplication(ctx context.Context, cfg deployment.ApplicationConfig) (*dokploy.Application, error) {
	if err := f.call("CreateApplication"); err != nil {
		return nil, err
	}
	f.createdApp = &cfg
	return &dokploy.Application{ApplicationID: f.id("app"), Name: cfg.Name}, nil
}

func (f *fakePlatform) UpdateApplication(ctx context.Context, applicationID string, cfg deployment.ApplicationConfig) error {
	if err := f.call("UpdateApplication"); err != nil {
		return err
	}
	f.updatedApp = &cfg
	return nil
}

func (f *fakePlatform) SaveDockerProvider(ctx context.Context, provider dokploy.DockerProvider) error {
	if err := f.call("SaveDockerProvider"); err != nil {
		return err
	}
	f.provider = &provider
	return nil
}

func (f *fakePlatform) SaveEnvironment(ctx context.Context, applicationID, env string) error {
	if err := f.call("SaveEnvironment"); err != nil {
		return err
	}
	f.savedEnv = &env
	return nil
}

func (f *fakePlatform) ListDomains(ctx context.Context, applicationID string) ([]dokploy.Domain, error) {
	if err := f.call("ListDomains"); err != nil {
		return nil, err
	}
	return f.domains[applicationID], nil
}

func (f *fakePlatform) CreateDomain(ctx context.Context, applicationID string, cfg deployment.DomainConfig) (*dokploy.Domain, error) {
	if err := f.call("CreateDomain"); err != nil {
		return nil, err
	}
	f.createdDom = &cfg
	return &dokploy.Domain{DomainID: f.id("dom"), Host: cfg.Host}, nil
}

func (f *fakePlatform) DeleteDomain(ctx context.Context, domainID string) error {
	if err := f.call("DeleteDomain"); err != nil {
		return err
	}
	f.deleted = append(f.deleted, domainID)
	return nil
}

func (f *fakePlatform) DeployApplication(ctx context.Context, applicationID, title, description string) error {
	if err := f.call("DeployApplication"); err != nil {
		return err
	}
	f.deployTitle = title
	f.deployments = append(f.deployments, dokploy.Deployment{
		DeploymentID: f.id("dep"),
		Status:       f.deployStatus,
		CreatedAt:    fmt.Sprintf("2026-01-01T12:00:%02d.000Z", f.nextID),
	})
	return nil
}

func (f *fakePlatform) ListDeployments(ctx context.Context, applicationID string) ([]dokploy.Deployment, error) {
	if err := f.call("ListDeployments"); err != nil {
		return nil, err
	}
	return append([]dokploy.Deployment(nil), f.deployments...), nil
}

// =============================================================================
// Test Helpers
// =============================================================================

type fakeGetter struct {
	status int
	urls   []string
}

func (g *fakeGetter) Get(ctx context.Context, url string) (int, error) {
	g.urls = append(g.urls, url)
	return g.status, nil
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func baseInputs() domain.Inputs {
	return domain.Inputs{
		DokployURL:          "https://dokploy.example.com",
		APIKey:              "secret",
		DockerImage:         "ghcr.io/org/web:v1.0.0",
		ProjectName:         domain.Ptr("shop"),
		EnvironmentName:     "production",
		AutoCreateResources: true,
		ServerName:          domain.Ptr("edge"),
		RegistryURL:         "ghcr.io",
		WaitForDeployment:   true,
		HealthCheckEnabled:  true,
	}
}

type harness struct {
	platform *fakePlatform
	getter   *fakeGetter
	deployer *Deployer
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		platform: newFakePlatform(),
		getter:   &fakeGetter{status: 200},
	}
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	all := append([]Option{
		WithGetter(h.getter),
		WithSleeper(clock.Sleep),
		WithClock(clock.Now),
		WithEnvFileLoader(func(path, field string) (map[string]string, error) {
			return nil, errors.New("unexpected env file read")
		}),
	}, opts...)
	h.deployer = New(h.platform, slog.New(slog.NewTextHandler(io.Discard, nil)), all...)
	return h
}

// =============================================================================
// Run Tests
// =============================================================================

func TestRun_CreatesEverything(t *testing.T) {
	h := newHarness()
	in := baseInputs()
	in.EnvFromJSON = domain.Ptr(`{"NODE_ENV":"production","PORT":3000}`)
	in.DomainHost = domain.Ptr("app.example.com")
	in.RegistryUsername = domain.Ptr("bot")
	in.RegistryPassword = domain.Ptr("token")
	in.DeploymentTitle = domain.Ptr("Release v1")

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"FindProjectByName", "CreateProject", "ResolveServerID", "CreateApplication",
		"SaveDockerProvider", "SaveEnvironment", "ListDomains", "CreateDomain",
		"ListDeployments", "DeployApplication", "ListDeployments",
	}, h.platform.calls)

	require.NotNil(t, h.platform.createdApp)
	assert.Equal(t, "web", h.platform.createdApp.Name)
	assert.Equal(t, "srv-1", h.platform.createdApp.ServerID)
	assert.Equal(t, report.EnvironmentID, h.platform.createdApp.EnvironmentID)

	assert.Equal(t, dokploy.DockerProvider{
		ApplicationID: report.ApplicationID,
		DockerImage:   "ghcr.io/org/web:v1.0.0",
		RegistryURL:   "ghcr.io",
		Username:      "bot",
		Password:      "token",
	}, *h.platform.provider)
	assert.Equal(t, "NODE_ENV=production\nPORT=3000", *h.platform.savedEnv)
	assert.Equal(t, "Release v1", h.platform.deployTitle)

	assert.Equal(t, []string{"https://app.example.com/health"}, h.getter.urls)
	assert.Equal(t, map[string]string{
		OutputProjectID:         "proj-1",
		OutputEnvironmentID:     "env-2",
		OutputServerID:          "srv-1",
		OutputApplicationID:     "app-3",
		OutputDomainID:          "dom-4",
		OutputDeploymentURL:     "https://app.example.com",
		OutputDeploymentStatus:  "success",
		OutputHealthCheckStatus: "healthy",
	}, report.Outputs())
	assert.False(t, report.Failed())
}

func TestRun_ReusesExistingResources(t *testing.T) {
	h := newHarness()
	h.platform.projects = []dokploy.Project{{
		ProjectID: "p1",
		Name:      "shop",
		Environments: []dokploy.Environment{{
			EnvironmentID: "e1",
			Name:          "staging",
			ProjectID:     "p1",
			Applications:  []dokploy.Application{{ApplicationID: "a1", Name: "web"}},
		}},
	}}
	h.platform.domains["a1"] = []dokploy.Domain{{DomainID: "d1", Host: "app.example.com"}}

	in := baseInputs()
	in.EnvironmentName = "staging"
	in.DomainHost = domain.Ptr("app.example.com")
	in.Replicas = domain.Ptr(3)

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.NotContains(t, h.platform.calls, "CreateProject")
	assert.NotContains(t, h.platform.calls, "CreateEnvironment")
	assert.NotContains(t, h.platform.calls, "CreateApplication")
	assert.NotContains(t, h.platform.calls, "CreateDomain")
	assert.NotContains(t, h.platform.calls, "SaveEnvironment")

	require.NotNil(t, h.platform.updatedApp)
	assert.Equal(t, 3, *h.platform.updatedApp.Replicas)
	assert.Equal(t, "p1", report.ProjectID)
	assert.Equal(t, "e1", report.EnvironmentID)
	assert.Equal(t, "a1", report.ApplicationID)
	assert.Equal(t, "d1", report.DomainID)
}

func TestRun_ExplicitIDs(t *testing.T) {
	h := newHarness()
	h.platform.projects = []dokploy.Project{{ProjectID: "p9", Name: "other"}}

	in := baseInputs()
	in.ProjectID = domain.Ptr("p9")
	in.EnvironmentID = domain.Ptr("e9")
	in.ApplicationID = domain.Ptr("a9")
	in.ServerID = domain.Ptr("srv-9")

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "p9", report.ProjectID)
	assert.Equal(t, "e9", report.EnvironmentID)
	assert.Equal(t, "srv-9", report.ServerID)
	assert.Equal(t, "a9", report.ApplicationID)
	assert.Contains(t, h.platform.calls, "UpdateApplication")
	assert.Equal(t, "e9", h.platform.updatedApp.EnvironmentID)
}

func TestRun_CreatesMissingEnvironment(t *testing.T) {
	h := newHarness()
	h.platform.projects = []dokploy.Project{{ProjectID: "p1", Name: "shop"}}

	in := baseInputs()
	in.EnvironmentName = "preview"

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Contains(t, h.platform.calls, "CreateEnvironment")
	assert.Equal(t, "env-1", report.EnvironmentID)
}

func TestRun_ForceDomainRecreation(t *testing.T) {
	h := newHarness()
	h.platform.projects = []dokploy.Project{{
		ProjectID: "p1",
		Name:      "shop",
		Environments: []dokploy.Environment{{
			EnvironmentID: "e1",
			Name:          "production",
			Applications:  []dokploy.Application{{ApplicationID: "a1", Name: "web"}},
		}},
	}}
	h.platform.domains["a1"] = []dokploy.Domain{
		{DomainID: "d1", Host: "app.example.com"},
		{DomainID: "d2", Host: "other.example.com"},
	}

	in := baseInputs()
	in.DomainHost = domain.Ptr("app.example.com")
	in.DomainHTTPS = domain.Ptr(false)
	in.ForceDomainRecreation = true

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"d1"}, h.platform.deleted)
	require.NotNil(t, h.platform.createdDom)
	assert.False(t, h.platform.createdDom.HTTPS)
	assert.Equal(t, "http://app.example.com", report.DeploymentURL)
	assert.Equal(t, []string{"http://app.example.com/health"}, h.getter.urls)
}

func TestRun_NoDomainSkipsHealthCheck(t *testing.T) {
	h := newHarness()

	report, err := h.deployer.Run(context.Background(), baseInputs())
	require.NoError(t, err)

	assert.NotContains(t, h.platform.calls, "ListDomains")
	assert.Empty(t, report.DeploymentURL)
	assert.Empty(t, report.DomainID)
	assert.Equal(t, health.ResultSkipped, report.Health)
	assert.Empty(t, h.getter.urls)
	assert.NotContains(t, report.Outputs()[OutputDeploymentURL], "http")
}

func TestRun_WithoutWaiting(t *testing.T) {
	h := newHarness()
	h.platform.deployStatus = dokploy.DeploymentStatusRunning
	in := baseInputs()
	in.WaitForDeployment = false

	report, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.NotContains(t, h.platform.calls, "ListDeployments")
	assert.Equal(t, StatusSuccess, report.DeploymentStatus)
}

func TestRun_EnvFile(t *testing.T) {
	var readPath string
	h := newHarness(WithEnvFileLoader(func(path, field string) (map[string]string, error) {
		readPath = path
		return map[string]string{"B": "2", "A": "1"}, nil
	}))
	in := baseInputs()
	in.EnvFile = domain.Ptr(".env.production")

	_, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, ".env.production", readPath)
	assert.Equal(t, "A=1\nB=2", *h.platform.savedEnv)
}

func TestRun_EnvFileIgnoredWhenEnvSupplied(t *testing.T) {
	h := newHarness()
	in := baseInputs()
	in.Env = domain.Ptr("RAW=1")
	in.EnvFile = domain.Ptr(".env")

	_, err := h.deployer.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "RAW=1", *h.platform.savedEnv)
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestRun_ValidationFailsBeforeNetwork(t *testing.T) {
	h := newHarness()
	in := baseInputs()
	in.DockerImage = "ghcr.io/org/web"
	in.MemoryLimit = domain.Ptr(1)

	report, err := h.deployer.Run(context.Background(), in)

	assert.Nil(t, report)
	var verrs *validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"docker-image", "memory-limit"}, verrs.Fields())
	assert.Empty(t, h.platform.calls)
}

func TestRun_MalformedEnvFailsBeforeNetwork(t *testing.T) {
	h := newHarness()
	in := baseInputs()
	in.EnvFromJSON = domain.Ptr(`{"A":`)

	report, err := h.deployer.Run(context.Background(), in)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrMalformedEnv)
	assert.Empty(t, h.platform.calls)
}

func TestRun_ProjectResolutionErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.Inputs)
		want   error
	}{
		{
			name:   "no project given",
			modify: func(in *domain.Inputs) { in.ProjectName = nil },
			want:   ErrProjectNotSpecified,
		},
		{
			name:   "missing without auto-create",
			modify: func(in *domain.Inputs) { in.AutoCreateResources = false },
			want:   ErrProjectNotFound,
		},
		{
			name:   "unknown project id",
			modify: func(in *domain.Inputs) { in.ProjectID = domain.Ptr("p404") },
			want:   dokploy.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			in := baseInputs()
			tt.modify(&in)

			report, err := h.deployer.Run(context.Background(), in)

			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "resolve project")
			require.NotNil(t, report)
			assert.Empty(t, report.ProjectID)
		})
	}
}

func TestRun_ServerNotSpecified(t *testing.T) {
	h := newHarness()
	in := baseInputs()
	in.ServerName = nil

	report, err := h.deployer.Run(context.Background(), in)

	require.ErrorIs(t, err, dokploy.ErrServerNotSpecified)
	assert.Equal(t, "proj-1", report.ProjectID)
	assert.NotContains(t, h.platform.calls, "CreateApplication")
}

func TestRun_MissingResourcesWithoutAutoCreate(t *testing.T) {
	h := newHarness()
	h.platform.projects = []dokploy.Project{{
		ProjectID:    "p1",
		Name:         "shop",
		Environments: []dokploy.Environment{{EnvironmentID: "e1", Name: "production"}},
	}}
	in := baseInputs()
	in.AutoCreateResources = false

	_, err := h.deployer.Run(context.Background(), in)
	require.ErrorIs(t, err, ErrApplicationNotFound)

	in.EnvironmentName = "staging"
	_, err = h.deployer.Run(context.Background(), in)
	require.ErrorIs(t, err, ErrEnvironmentNotFound)
}

func TestRun_PlatformErrorStopsRun(t *testing.T) {
	h := newHarness()
	h.platform.failOn["SaveDockerProvider"] = dokploy.NewAPIError("SaveDockerProvider", "application.saveDockerProvider", 401, "Unauthorized", dokploy.ErrUnauthorized)

	report, err := h.deployer.Run(context.Background(), baseInputs())

	require.ErrorIs(t, err, dokploy.ErrUnauthorized)
	assert.Contains(t, err.Error(), "save docker provider")
	assert.NotEmpty(t, report.ApplicationID)
	assert.NotContains(t, h.platform.calls, "DeployApplication")
}

func TestRun_DeploymentFailed(t *testing.T) {
	h := newHarness()
	h.platform.deployStatus = dokploy.DeploymentStatusError
	in := baseInputs()
	in.DomainHost = domain.Ptr("app.example.com")

	report, err := h.deployer.Run(context.Background(), in)

	require.ErrorIs(t, err, workers.ErrDeploymentFailed)
	assert.Equal(t, StatusFailed, report.DeploymentStatus)
	assert.Equal(t, health.ResultSkipped, report.Health)
	assert.Empty(t, h.getter.urls)
	assert.True(t, report.Failed())
	assert.Equal(t, "failed", report.Outputs()[OutputDeploymentStatus])
}

func TestRun_DeploymentTimeout(t *testing.T) {
	h := newHarness(WithPollInterval(10 * time.Second))
	h.platform.deployStatus = dokploy.DeploymentStatusRunning
	in := baseInputs()
	in.DeploymentTimeout = domain.Ptr(30)

	report, err := h.deployer.Run(context.Background(), in)

	require.ErrorIs(t, err, workers.ErrDeploymentTimeout)
	assert.Equal(t, StatusFailed, report.DeploymentStatus)
}

func TestRun_Unhealthy(t *testing.T) {
	h := newHarness()
	h.getter.status = 503
	in := baseInputs()
	in.DomainHost = domain.Ptr("app.example.com")
	in.HealthCheckRetries = domain.Ptr(2)
	in.HealthCheckPath = domain.Ptr("/ready")

	report, err := h.deployer.Run(context.Background(), in)

	require.ErrorIs(t, err, ErrUnhealthy)
	assert.Equal(t, StatusSuccess, report.DeploymentStatus)
	assert.Equal(t, health.ResultUnhealthy, report.Health)
	assert.Len(t, h.getter.urls, 2)
	assert.Equal(t, "https://app.example.com/ready", h.getter.urls[0])
	assert.True(t, report.Failed())
}

// =============================================================================
// Report Tests
// =============================================================================

func TestReport_Failed(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   bool
	}{
		{"success healthy", Report{DeploymentStatus: StatusSuccess, Health: health.ResultHealthy}, false},
		{"success skipped", Report{DeploymentStatus: StatusSuccess, Health: health.ResultSkipped}, false},
		{"success unhealthy", Report{DeploymentStatus: StatusSuccess, Health: health.ResultUnhealthy}, true},
		{"deployment failed", Report{DeploymentStatus: StatusFailed, Health: health.ResultSkipped}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Failed())
		})
	}
}
