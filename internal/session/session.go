// Package session assembles the client core for one signed-in user: the
// typed API client, the catalog/participation/notification services, the
// cached profile, and the background notification synchronizer. It also
// hosts the cross-service workflows, most importantly the completion flow
// that chains the state machine, reward application, and the badge diff.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/achievements"
	"github.com/challengeme/client/internal/api"
	"github.com/challengeme/client/internal/catalog"
	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/notifications"
	"github.com/challengeme/client/internal/participation"
	"github.com/challengeme/client/internal/rewards"
	"github.com/challengeme/client/internal/store"
)

// Config parameterizes a session.
type Config struct {
	BaseURL        string
	Token          string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// Session is the client core for one user. Create with New, then Start to
// hydrate local state and begin polling, and Close on logout or teardown.
type Session struct {
	Identity Identity

	Catalog        *catalog.Service
	Participations *participation.Service
	Notifications  *notifications.Service

	api     *api.Client
	profile *store.Store[models.UserProfile]
	rewards *rewards.Service
	badges  *achievements.Engine
	sync    *notifications.Synchronizer
	logger  *zap.Logger
}

// New builds a session from cfg. The bearer token must carry the user's id
// and username claims.
func New(cfg Config) (*Session, error) {
	identity, err := identityFromToken(cfg.Token)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := api.New(api.Config{
		BaseURL: cfg.BaseURL,
		Token:   api.StaticToken(cfg.Token),
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})

	profile := store.New(models.UserProfile{
		ID:       identity.UserID,
		Username: identity.Username,
	})

	notifSvc := notifications.NewService(client, identity.UserID, logger)

	s := &Session{
		Identity:       identity,
		Catalog:        catalog.NewService(client, identity.Username, logger),
		Participations: participation.NewService(client, identity.UserID, logger),
		Notifications:  notifSvc,
		api:            client,
		profile:        profile,
		rewards:        rewards.NewService(profile, logger),
		badges:         achievements.NewEngine(client, identity.Username, logger),
		sync:           notifications.NewSynchronizer(notifSvc, cfg.PollInterval, cfg.RequestTimeout, logger),
		logger:         logger.Named("session"),
	}
	return s, nil
}

// Profile exposes the cached profile store.
func (s *Session) Profile() *store.Store[models.UserProfile] { return s.profile }

// Start hydrates local state from the server and launches the notification
// poller. ctx bounds the initial fetches and parents the polling loop.
func (s *Session) Start(ctx context.Context) error {
	if err := s.RefreshProfile(ctx); err != nil {
		return err
	}
	if err := s.Participations.Refresh(ctx); err != nil {
		return err
	}
	if err := s.Catalog.Refresh(ctx); err != nil {
		return err
	}

	s.sync.Start(ctx)
	s.logger.Info("session started",
		zap.String("user_id", s.Identity.UserID),
		zap.String("username", s.Identity.Username),
	)
	return nil
}

// Close stops the background poller. In-flight poll responses arriving
// afterwards are discarded.
func (s *Session) Close() {
	s.sync.Stop()
	s.logger.Info("session closed")
}

// RefreshProfile replaces the cached profile with the server's
// authoritative aggregate, reconciling any optimistic reward drift.
func (s *Session) RefreshProfile(ctx context.Context) error {
	p, err := s.api.GetProfile(ctx)
	if err != nil {
		return err
	}
	s.profile.Set(p)
	return nil
}

// AcceptChallenge signs the contract for a challenge (invitation or catalog
// self-enroll; the two unify onto one link).
func (s *Session) AcceptChallenge(ctx context.Context, challengeID string, contract participation.Contract) (models.Participation, error) {
	return s.Participations.Accept(ctx, challengeID, contract)
}

// DeclineInvitation removes a pending invitation; declining twice is a no-op.
func (s *Session) DeclineInvitation(ctx context.Context, participationID string) error {
	return s.Participations.Decline(ctx, participationID)
}

// CompletionResult is what a completed challenge earned.
type CompletionResult struct {
	Participation models.Participation
	// PointsEarned is the challenge's point value credited to the profile.
	PointsEarned int
	// NewBadge is the badge celebrated for this completion, nil for a plain
	// point-reward event. Best-effort attribution (see achievements.Engine).
	NewBadge *models.Badge
	// UnlockedBadges lists every badge that appeared in the diff.
	UnlockedBadges []models.Badge
}

// CompleteChallenge runs the full completion workflow: snapshot the badge
// set, drive ACCEPTED -> COMPLETED through the server, apply the point
// reward to the cached profile, then diff badges to find what unlocked.
//
// The workflow is strictly sequential; each step depends on the previous
// one's result. A badge fetch failure after a successful completion does not
// fail the workflow: the completion and its points stand, only the
// celebration is skipped.
func (s *Session) CompleteChallenge(ctx context.Context, participationID string) (*CompletionResult, error) {
	before, err := s.badges.Snapshot(ctx)
	if err != nil {
		// Degrade to plain completion: misreporting "no new badge" is
		// better than blocking the completion itself.
		s.logger.Warn("badge snapshot failed, skipping diff", zap.Error(err))
		before = nil
	}

	completed, err := s.Participations.Complete(ctx, participationID)
	if err != nil {
		return nil, err
	}

	s.rewards.ApplyCompletion(completed.Points)

	result := &CompletionResult{
		Participation: completed,
		PointsEarned:  completed.Points,
	}

	if before != nil {
		fresh, _, err := s.badges.Unlocked(ctx, before)
		if err != nil {
			s.logger.Warn("badge diff failed after completion", zap.Error(err))
			return result, nil
		}
		result.UnlockedBadges = fresh
		if len(fresh) > 0 {
			result.NewBadge = &fresh[0]
			for _, b := range fresh {
				s.rewards.ApplyBadge(b)
			}
		}
	}
	return result, nil
}

// RestartChallenge reopens a completed challenge for another run. Callers
// must collect explicit user confirmation first; restarting discards the
// completion state of the current run.
func (s *Session) RestartChallenge(ctx context.Context, participationID string) (models.Participation, error) {
	return s.Participations.Restart(ctx, participationID)
}

// AssignChallenge invites a friend to a challenge.
func (s *Session) AssignChallenge(ctx context.Context, challengeID, friendUserID string) error {
	return s.Participations.Assign(ctx, challengeID, friendUserID)
}

// Friends fetches the user's friends list.
func (s *Session) Friends(ctx context.Context) ([]models.Friend, error) {
	return s.api.ListFriends(ctx, s.Identity.UserID)
}

// Leaderboard builds the social standings from the friends list and the
// cached profile.
func (s *Session) Leaderboard(ctx context.Context) ([]Standing, error) {
	friends, err := s.Friends(ctx)
	if err != nil {
		return nil, fmt.Errorf("build leaderboard: %w", err)
	}
	return Standings(s.profile.Get(), friends), nil
}
