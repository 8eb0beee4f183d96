// Package notifications keeps the local notification feed and its derived
// unread counter consistent with server state, via explicit operations here
// and the background Synchronizer.
package notifications

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/store"
)

// API is the notification slice of the backend client.
type API interface {
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) (models.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Service owns the notification feed store. The unread counter is always
// derived from the feed, never tracked independently, so it cannot drift.
type Service struct {
	api    API
	feed   *store.Store[[]models.Notification]
	logger *zap.Logger
	userID string
}

// NewService builds a notification service for the given user.
func NewService(apiClient API, userID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:    apiClient,
		feed:   store.New[[]models.Notification](nil),
		logger: logger.Named("notifications"),
		userID: userID,
	}
}

// Feed exposes the feed store for subscription.
func (s *Service) Feed() *store.Store[[]models.Notification] { return s.feed }

// UnreadCount derives the unread counter from the current feed.
func (s *Service) UnreadCount() int {
	count := 0
	for _, n := range s.feed.Get() {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Fetch pulls the feed once and commits it. The Synchronizer calls this on
// its own schedule; it is also usable for an explicit refresh.
func (s *Service) Fetch(ctx context.Context) error {
	list, err := s.api.ListNotifications(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}
	s.commit(list)
	return nil
}

// commit sorts the fetched feed newest-first and replaces the store.
func (s *Service) commit(list []models.Notification) {
	sorted := make([]models.Notification, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp.Time)
	})
	s.feed.Set(sorted)
}

// MarkRead flips one notification's read flag. The flip is optimistic: the
// local feed updates immediately for UI responsiveness, and flips back if
// the server rejects the confirmation call. Both writes touch only the one
// notification inside the then-current feed, never a pre-call snapshot, so
// a poll commit landing while the PATCH is in flight is not overwritten.
func (s *Service) MarkRead(ctx context.Context, notificationID string) error {
	flipped := false
	s.feed.Update(func(list []models.Notification) []models.Notification {
		next, changed := setRead(list, notificationID, true)
		flipped = changed
		return next
	})
	if !flipped {
		return nil // unknown or already read: nothing to do
	}

	if _, err := s.api.MarkNotificationRead(ctx, notificationID); err != nil {
		// Flip back in whatever feed is current now, so the local feed
		// never claims a read the server does not hold.
		s.feed.Update(func(list []models.Notification) []models.Notification {
			next, _ := setRead(list, notificationID, false)
			return next
		})
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// setRead returns list with one notification's read flag set, copying only
// when the flag actually moves. The second result reports whether it did.
func setRead(list []models.Notification, id string, read bool) ([]models.Notification, bool) {
	for i := range list {
		if list[i].ID == id && list[i].IsRead != read {
			next := make([]models.Notification, len(list))
			copy(next, list)
			next[i].IsRead = read
			return next, true
		}
	}
	return list, false
}

// MarkAllRead clears the unread counter with a single bulk call, then flips
// the whole local feed without re-fetching.
func (s *Service) MarkAllRead(ctx context.Context) error {
	if err := s.api.MarkAllNotificationsRead(ctx, s.userID); err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}

	s.feed.Update(func(list []models.Notification) []models.Notification {
		next := make([]models.Notification, len(list))
		copy(next, list)
		for i := range next {
			next[i].IsRead = true
		}
		return next
	})
	s.logger.Info("notifications cleared", zap.String("user_id", s.userID))
	return nil
}
