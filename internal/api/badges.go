package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/challengeme/client/internal/models"
)

// ListBadges fetches the badge catalog.
func (c *Client) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	if err := c.get(ctx, "/badges", &out); err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return out, nil
}

// ListUserBadges fetches the badges a user has been awarded.
func (c *Client) ListUserBadges(ctx context.Context, username string) ([]models.Badge, error) {
	var out []models.Badge
	if err := c.get(ctx, "/badges/user/"+url.PathEscape(username), &out); err != nil {
		return nil, fmt.Errorf("list badges for %s: %w", username, err)
	}
	return out, nil
}
