package dokploy

import (
	"context"
	"net/url"

	"github.com/artpar/dokploy-deploy/internal/core/deployment"
)

// =============================================================================
// Application Operations
// =============================================================================

// CreateApplication creates an application from its payload.
func (c *Client) CreateApplication(ctx context.Context, cfg deployment.ApplicationConfig) (*Application, error) {
	var app Application
	if err := c.post(ctx, "CreateApplication", "application.create", cfg, &app); err != nil {
		return nil, err
	}
	if app.ApplicationID == "" {
		return nil, NewAPIError("CreateApplication", "application.create", 0, "response has no applicationId", ErrInvalidResponse)
	}
	return &app, nil
}

// UpdateApplication applies the payload to an existing application.
func (c *Client) UpdateApplication(ctx context.Context, applicationID string, cfg deployment.ApplicationConfig) error {
	body := struct {
		ApplicationID string `json:"applicationId"`
		deployment.ApplicationConfig
	}{
		ApplicationID:     applicationID,
		ApplicationConfig: cfg,
	}
	return c.post(ctx, "UpdateApplication", "application.update", body, nil)
}

// SaveDockerProvider sets the image and registry credentials.
func (c *Client) SaveDockerProvider(ctx context.Context, provider DockerProvider) error {
	return c.post(ctx, "SaveDockerProvider", "application.saveDockerProvider", provider, nil)
}

// SaveEnvironment replaces the application's environment variables.
func (c *Client) SaveEnvironment(ctx context.Context, applicationID, env string) error {
	body := map[string]string{
		"applicationId": applicationID,
		"env":           env,
	}
	return c.post(ctx, "SaveEnvironment", "application.saveEnvironment", body, nil)
}

// DeployApplication queues a deployment.
func (c *Client) DeployApplication(ctx context.Context, applicationID, title, description string) error {
	body := map[string]string{"applicationId": applicationID}
	if title != "" {
		body["title"] = title
	}
	if description != "" {
		body["description"] = description
	}
	return c.post(ctx, "DeployApplication", "application.deploy", body, nil)
}

// =============================================================================
// Deployment Operations
// =============================================================================

// ListDeployments returns the deployments of an application.
func (c *Client) ListDeployments(ctx context.Context, applicationID string) ([]Deployment, error) {
	var deployments []Deployment
	query := url.Values{"applicationId": {applicationID}}
	if err := c.get(ctx, "ListDeployments", "deployment.all", query, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}
