package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/challengeme/client/internal/models"
)

// ListNotifications fetches a user's notification feed.
func (c *Client) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.get(ctx, "/notifications/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkNotificationRead flips a single notification's read flag server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) (models.Notification, error) {
	var out models.Notification
	path := "/notifications/" + url.PathEscape(notificationID)
	if err := c.patch(ctx, path, models.MarkReadRequest{IsRead: true}, &out); err != nil {
		return models.Notification{}, fmt.Errorf("mark notification %s read: %w", notificationID, err)
	}
	return out, nil
}

// MarkAllNotificationsRead flips every notification for a user in one call.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	path := "/notifications/user/" + url.PathEscape(userID) + "/mark-all-read"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
