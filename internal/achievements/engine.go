package achievements

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/models"
)

// API is the badge slice of the backend client.
type API interface {
	ListBadges(ctx context.Context) ([]models.Badge, error)
	ListUserBadges(ctx context.Context, username string) ([]models.Badge, error)
}

// Engine runs the before/after award-set comparison for one user.
//
// The comparison is a best-effort heuristic, not a transactional guarantee:
// any other source of badge awards that lands between the snapshot and the
// post-completion fetch (a second tab completing a different challenge, a
// server-side backfill) will be attributed to this completion. The backend
// does not expose award provenance, so the client cannot do better.
type Engine struct {
	api      API
	logger   *zap.Logger
	username string
}

// NewEngine builds a diff engine for the given user.
func NewEngine(apiClient API, username string, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		api:      apiClient,
		logger:   logger.Named("achievements"),
		username: username,
	}
}

// Snapshot captures the user's current award set. Call it before issuing a
// completing transition.
func (e *Engine) Snapshot(ctx context.Context) (AwardSet, error) {
	badges, err := e.api.ListUserBadges(ctx, e.username)
	if err != nil {
		return nil, fmt.Errorf("snapshot badge awards: %w", err)
	}
	return NewAwardSet(badges), nil
}

// Unlocked re-fetches the award set and diffs it against the snapshot.
// It returns the newly unlocked badges (nil when the completion was a plain
// point-reward event) together with the full current award list.
func (e *Engine) Unlocked(ctx context.Context, before AwardSet) ([]models.Badge, []models.Badge, error) {
	after, err := e.api.ListUserBadges(ctx, e.username)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch badge awards: %w", err)
	}

	fresh := Diff(before, after)
	if len(fresh) > 0 {
		names := make([]string, len(fresh))
		for i, b := range fresh {
			names[i] = b.Name
		}
		e.logger.Info("badges unlocked", zap.Strings("badges", names))
	}
	return fresh, after, nil
}

// Catalog fetches the full badge catalog, for rendering locked entries.
func (e *Engine) Catalog(ctx context.Context) ([]models.Badge, error) {
	badges, err := e.api.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch badge catalog: %w", err)
	}
	return badges, nil
}
