package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/challengeme/client/internal/models"
)

// GetProfile fetches the authenticated user's aggregate profile. This is the
// authoritative view that reconciles any optimistic local reward application.
func (c *Client) GetProfile(ctx context.Context) (models.UserProfile, error) {
	var out models.UserProfile
	if err := c.get(ctx, "/users/profile", &out); err != nil {
		return models.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return out, nil
}

// ListFriends fetches the user's friends list.
func (c *Client) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	var out []models.Friend
	if err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/friends", &out); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}
