package dokploy

import (
	"context"
	"net/url"

	"github.com/artpar/dokploy-deploy/internal/core/deployment"
)

// =============================================================================
// Domain Operations
// =============================================================================

// ListDomains returns the domains routed to an application.
func (c *Client) ListDomains(ctx context.Context, applicationID string) ([]Domain, error) {
	var domains []Domain
	query := url.Values{"applicationId": {applicationID}}
	if err := c.get(ctx, "ListDomains", "domain.byApplicationId", query, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// CreateDomain routes a domain to an application.
func (c *Client) CreateDomain(ctx context.Context, applicationID string, cfg deployment.DomainConfig) (*Domain, error) {
	body := struct {
		ApplicationID string `json:"applicationId"`
		deployment.DomainConfig
	}{
		ApplicationID: applicationID,
		DomainConfig:  cfg,
	}

	var d Domain
	if err := c.post(ctx, "CreateDomain", "domain.create", body, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDomain removes a domain.
func (c *Client) DeleteDomain(ctx context.Context, domainID string) error {
	return c.post(ctx, "DeleteDomain", "domain.delete", map[string]string{"domainId": domainID}, nil)
}
