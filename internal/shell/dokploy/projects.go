package dokploy

import (
	"context"
	"encoding/json"
	"fmt"
)

// =============================================================================
// Project Operations
// =============================================================================

// ListProjects returns every project with its environments and applications.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "ListProjects", "project.all", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// FindProjectByName returns the project with the given name.
// Returns nil, nil when no project matches.
func (c *Client) FindProjectByName(ctx context.Context, name string) (*Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// GetProject returns one project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ProjectID == projectID {
			return &projects[i], nil
		}
	}
	return nil, NewAPIError("GetProject", "project.all", 0, fmt.Sprintf("project %s not found", projectID), ErrNotFound)
}

// CreateProject creates a project. Newer platform versions also create a
// default environment and return it alongside the project; it is returned
// when present and nil otherwise.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, *Environment, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
	}

	var raw json.RawMessage
	if err := c.post(ctx, "CreateProject", "project.create", body, &raw); err != nil {
		return nil, nil, err
	}

	var wrapped struct {
		Project     *Project     `json:"project"`
		Environment *Environment `json:"environment"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Project != nil {
		return wrapped.Project, wrapped.Environment, nil
	}

	var project Project
	if err := json.Unmarshal(raw, &project); err != nil || project.ProjectID == "" {
		return nil, nil, NewAPIError("CreateProject", "project.create", 0, "response has no projectId", ErrInvalidResponse)
	}
	return &project, nil, nil
}

// =============================================================================
// Environment Operations
// =============================================================================

// CreateEnvironment creates an environment inside a project.
func (c *Client) CreateEnvironment(ctx context.Context, projectID, name, description string) (*Environment, error) {
	body := map[string]string{
		"projectId":   projectID,
		"name":        name,
		"description": description,
	}

	var env Environment
	if err := c.post(ctx, "CreateEnvironment", "environment.create", body, &env); err != nil {
		return nil, err
	}
	if env.EnvironmentID == "" {
		return nil, NewAPIError("CreateEnvironment", "environment.create", 0, "response has no environmentId", ErrInvalidResponse)
	}
	return &env, nil
}

// =============================================================================
// Server Operations
// =============================================================================

// ListServers returns every remote server.
func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	var servers []Server
	if err := c.get(ctx, "ListServers", "server.all", nil, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// ResolveServerID returns serverID when set, otherwise looks the server up by
// name.
func (c *Client) ResolveServerID(ctx context.Context, serverID, serverName string) (string, error) {
	if serverID != "" {
		return serverID, nil
	}
	if serverName == "" {
		return "", ErrServerNotSpecified
	}

	servers, err := c.ListServers(ctx)
	if err != nil {
		return "", err
	}
	for _, s := range servers {
		if s.Name == serverName {
			return s.ServerID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrServerNotFound, serverName)
}
