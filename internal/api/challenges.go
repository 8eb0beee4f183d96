package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/challengeme/client/internal/models"
)

// ListChallenges fetches the full challenge catalog.
func (c *Client) ListChallenges(ctx context.Context) ([]models.Challenge, error) {
	var out []models.Challenge
	if err := c.get(ctx, "/challenges", &out); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return out, nil
}

// ListUserChallenges fetches the challenges authored by username.
func (c *Client) ListUserChallenges(ctx context.Context, username string) ([]models.Challenge, error) {
	var out []models.Challenge
	if err := c.get(ctx, "/challenges/user/"+url.PathEscape(username), &out); err != nil {
		return nil, fmt.Errorf("list challenges by %s: %w", username, err)
	}
	return out, nil
}

// CreateChallenge publishes a new challenge definition.
func (c *Client) CreateChallenge(ctx context.Context, draft models.ChallengeDraft) (models.Challenge, error) {
	var out models.Challenge
	if err := c.post(ctx, "/challenges", draft, &out); err != nil {
		return models.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}
	return out, nil
}

// UpdateChallenge edits an existing challenge definition.
func (c *Client) UpdateChallenge(ctx context.Context, id string, draft models.ChallengeDraft) (models.Challenge, error) {
	var out models.Challenge
	if err := c.put(ctx, "/challenges/"+url.PathEscape(id), draft, &out); err != nil {
		return models.Challenge{}, fmt.Errorf("update challenge %s: %w", id, err)
	}
	return out, nil
}

// DeleteChallenge removes a challenge definition.
func (c *Client) DeleteChallenge(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/challenges/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete challenge %s: %w", id, err)
	}
	return nil
}
