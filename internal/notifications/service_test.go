package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/challengeme/client/internal/models"
)

type fakeNotifAPI struct {
	feed        []models.Notification
	listErr     error
	markErr     error
	markAllErr  error
	markedIDs   []string
	markAllDone bool
}

func (f *fakeNotifAPI) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return f.feed, f.listErr
}

func (f *fakeNotifAPI) MarkNotificationRead(ctx context.Context, id string) (models.Notification, error) {
	if f.markErr != nil {
		return models.Notification{}, f.markErr
	}
	f.markedIDs = append(f.markedIDs, id)
	return models.Notification{ID: id, IsRead: true}, nil
}

func (f *fakeNotifAPI) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if f.markAllErr != nil {
		return f.markAllErr
	}
	f.markAllDone = true
	return nil
}

func notif(id string, read bool, ts time.Time) models.Notification {
	return models.Notification{
		ID:        id,
		Message:   "message " + id,
		Type:      models.NotificationChallenge,
		IsRead:    read,
		Timestamp: models.NewFlexTime(ts),
	}
}

func TestFetchSortsNewestFirst(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := &fakeNotifAPI{feed: []models.Notification{
		notif("old", false, base.Add(-time.Hour)),
		notif("new", false, base),
		notif("mid", false, base.Add(-30*time.Minute)),
	}}
	s := NewService(f, "user-1", nil)

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() = %v, want nil", err)
	}

	got := s.Feed().Get()
	wantOrder := []string{"new", "mid", "old"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("feed order = %v, want %v", ids(got), wantOrder)
		}
	}
}

func TestUnreadCountIsDerived(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{feed: []models.Notification{
		notif("a", false, now),
		notif("b", true, now),
		notif("c", false, now),
	}}
	s := NewService(f, "user-1", nil)

	if got := s.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount before fetch = %d, want 0", got)
	}

	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() = %v, want nil", err)
	}
	if got := s.UnreadCount(); got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}
}

func TestMarkReadOptimistic(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{feed: []models.Notification{notif("a", false, now)}}
	s := NewService(f, "user-1", nil)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkRead(context.Background(), "a"); err != nil {
		t.Fatalf("MarkRead() = %v, want nil", err)
	}
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
	if len(f.markedIDs) != 1 || f.markedIDs[0] != "a" {
		t.Errorf("server saw marks %v, want [a]", f.markedIDs)
	}
}

func TestMarkReadRollsBackOnServerError(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{
		feed:    []models.Notification{notif("a", false, now)},
		markErr: errors.New("backend down"),
	}
	s := NewService(f, "user-1", nil)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkRead(context.Background(), "a"); err == nil {
		t.Fatal("MarkRead() = nil, want error")
	}
	// The optimistic flip must not survive the failed confirmation.
	if got := s.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount after rollback = %d, want 1", got)
	}
}

// blockingMarkAPI holds each MarkNotificationRead call open until the test
// releases it, so commits can be interleaved with the round trip.
type blockingMarkAPI struct {
	markStarted chan struct{}
	markResult  chan error
}

func (b *blockingMarkAPI) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return nil, nil
}

func (b *blockingMarkAPI) MarkNotificationRead(ctx context.Context, id string) (models.Notification, error) {
	b.markStarted <- struct{}{}
	return models.Notification{}, <-b.markResult
}

func (b *blockingMarkAPI) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return nil
}

func TestMarkReadRollbackPreservesNewerCommit(t *testing.T) {
	base := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	api := &blockingMarkAPI{
		markStarted: make(chan struct{}),
		markResult:  make(chan error),
	}
	s := NewService(api, "user-1", nil)
	s.commit([]models.Notification{notif("a", false, base)})

	done := make(chan error, 1)
	go func() { done <- s.MarkRead(context.Background(), "a") }()
	<-api.markStarted

	// A poll cycle lands while the confirmation call is in flight.
	s.commit([]models.Notification{
		notif("b", false, base.Add(time.Minute)),
		notif("a", false, base),
	})

	api.markResult <- errors.New("backend down")
	if err := <-done; err == nil {
		t.Fatal("MarkRead() = nil, want error")
	}

	got := s.Feed().Get()
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("feed = %v, want the newer poll commit [b a] to survive the rollback", ids(got))
	}
	if got[1].IsRead {
		t.Error("notification a still read after rollback")
	}
}

func TestMarkReadSkipsAlreadyRead(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{feed: []models.Notification{notif("a", true, now)}}
	s := NewService(f, "user-1", nil)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkRead(context.Background(), "a"); err != nil {
		t.Fatalf("MarkRead() = %v, want nil", err)
	}
	if len(f.markedIDs) != 0 {
		t.Errorf("server saw marks %v for an already-read notification, want none", f.markedIDs)
	}
}

func TestMarkAllRead(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{feed: []models.Notification{
		notif("a", false, now),
		notif("b", false, now),
		notif("c", true, now),
	}}
	s := NewService(f, "user-1", nil)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("MarkAllRead() = %v, want nil", err)
	}
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount = %d, want 0", got)
	}
	if !f.markAllDone {
		t.Error("bulk endpoint was never called")
	}
}

func TestMarkAllReadKeepsStateOnError(t *testing.T) {
	now := time.Now().UTC()
	f := &fakeNotifAPI{
		feed:       []models.Notification{notif("a", false, now)},
		markAllErr: errors.New("backend down"),
	}
	s := NewService(f, "user-1", nil)
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.MarkAllRead(context.Background()); err == nil {
		t.Fatal("MarkAllRead() = nil, want error")
	}
	if got := s.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount = %d after failed bulk call, want 1", got)
	}
}

func ids(list []models.Notification) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}
