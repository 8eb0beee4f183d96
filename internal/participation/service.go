package participation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/api"
	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/store"
)

// API is the slice of the backend client this service drives.
type API interface {
	ListParticipations(ctx context.Context, userID string) ([]models.Participation, error)
	AcceptChallenge(ctx context.Context, challengeID string, req models.AcceptRequest) (models.Participation, error)
	UpdateParticipationStatus(ctx context.Context, participationID string, status models.Status) (models.Participation, error)
	DeleteParticipation(ctx context.Context, participationID string) error
	AssignChallenge(ctx context.Context, req models.AssignRequest) (models.Participation, error)
}

// Service maintains the user's participation links and drives lifecycle
// transitions. Local state only changes after the server confirms a
// transition; there are no optimistic writes on this path, so a failed call
// leaves the prior state authoritative.
type Service struct {
	api    API
	links  *store.Store[[]models.Participation]
	logger *zap.Logger
	userID string
}

// NewService builds a participation service for the given user.
func NewService(apiClient API, userID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:    apiClient,
		links:  store.New[[]models.Participation](nil),
		logger: logger.Named("participation"),
		userID: userID,
	}
}

// Links exposes the link store for subscription by UI surfaces.
func (s *Service) Links() *store.Store[[]models.Participation] { return s.links }

// Refresh replaces the link store with the server's current view.
func (s *Service) Refresh(ctx context.Context) error {
	links, err := s.api.ListParticipations(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("refresh participations: %w", err)
	}
	s.links.Set(links)
	return nil
}

// Get returns the participation with the given id from the local store.
func (s *Service) Get(id string) (models.Participation, bool) {
	for _, p := range s.links.Get() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Participation{}, false
}

// ByChallenge returns the participation linking the user to the given
// challenge, if any.
func (s *Service) ByChallenge(challengeID string) (models.Participation, bool) {
	for _, p := range s.links.Get() {
		if p.ChallengeID == challengeID {
			return p, true
		}
	}
	return models.Participation{}, false
}

// ByStatus returns the locally cached participations in the given status.
func (s *Service) ByStatus(status models.Status) []models.Participation {
	var out []models.Participation
	for _, p := range s.links.Get() {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// Accept signs the contract for a challenge. It covers both flows that end
// in ACCEPTED: answering a pending invitation and self-enrolling from the
// catalog. When a pending invitation for the challenge already exists the
// two flows are unified onto that one link, so no duplicate participation is
// ever created; a live (accepted) or completed link refuses acceptance
// outright, completed ones via Restart instead.
func (s *Service) Accept(ctx context.Context, challengeID string, contract Contract) (models.Participation, error) {
	if err := contract.Validate(); err != nil {
		return models.Participation{}, err
	}

	if existing, ok := s.ByChallenge(challengeID); ok && existing.Status != models.StatusPending {
		// ACCEPTED: already running, nothing to sign. COMPLETED: replays go
		// through Restart so the link (and its completion count) is reused
		// instead of duplicated.
		return models.Participation{}, ErrAlreadyParticipating
	}

	accepted, err := s.api.AcceptChallenge(ctx, challengeID, models.AcceptRequest{
		Status:         models.StatusAccepted,
		StartDate:      contract.StartDate,
		TargetDeadline: contract.TargetDeadline,
	})
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			// The server already holds a link our cache missed.
			return models.Participation{}, ErrAlreadyParticipating
		}
		return models.Participation{}, err
	}

	s.upsert(accepted)
	s.logger.Info("challenge accepted",
		zap.String("challenge_id", challengeID),
		zap.String("participation_id", accepted.ID),
		zap.Int("committed_days", contract.Duration()),
	)
	return accepted, nil
}

// Decline removes a pending invitation. Declining an id that is already gone
// is a no-op: the row's absence is exactly the state decline wants.
func (s *Service) Decline(ctx context.Context, participationID string) error {
	if p, ok := s.Get(participationID); ok && !CanDecline(p.Status) {
		return fmt.Errorf("%w: %s -> declined", ErrInvalidTransition, p.Status)
	}

	if err := s.api.DeleteParticipation(ctx, participationID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.remove(participationID)
			return nil
		}
		return err
	}

	s.remove(participationID)
	s.logger.Info("invitation declined", zap.String("participation_id", participationID))
	return nil
}

// Complete drives the ACCEPTED -> COMPLETED transition. This is the only
// transition that earns rewards; callers run reward application and the
// badge diff after it returns.
func (s *Service) Complete(ctx context.Context, participationID string) (models.Participation, error) {
	current, ok := s.Get(participationID)
	if !ok {
		return models.Participation{}, fmt.Errorf("%w: %s", ErrNoParticipation, participationID)
	}
	if err := CheckTransition(current.Status, models.StatusCompleted); err != nil {
		return models.Participation{}, err
	}

	completed, err := s.api.UpdateParticipationStatus(ctx, participationID, models.StatusCompleted)
	if err != nil {
		return models.Participation{}, err
	}
	if completed.DateCompleted.IsZero() {
		completed.DateCompleted = models.NewFlexTime(time.Now().UTC())
	}

	s.upsert(completed)
	s.logger.Info("challenge completed",
		zap.String("participation_id", participationID),
		zap.String("challenge", completed.ChallengeTitle),
		zap.Int("points", completed.Points),
	)
	return completed, nil
}

// Restart reopens a completed participation for another run. The transition
// is destructive-feeling, so callers must collect explicit user confirmation
// before invoking it. The start date always resets to the date of the
// restart call and completion semantics are cleared.
func (s *Service) Restart(ctx context.Context, participationID string) (models.Participation, error) {
	current, ok := s.Get(participationID)
	if !ok {
		return models.Participation{}, fmt.Errorf("%w: %s", ErrNoParticipation, participationID)
	}
	if err := CheckTransition(current.Status, models.StatusAccepted); err != nil {
		return models.Participation{}, err
	}

	restarted, err := s.api.UpdateParticipationStatus(ctx, participationID, models.StatusAccepted)
	if err != nil {
		return models.Participation{}, err
	}

	// The restart semantics are client-defined regardless of what the
	// server echoes: a fresh run starting now, with no completion stamp.
	restarted.StartDate = models.NewFlexTime(time.Now().UTC())
	restarted.DateCompleted = models.FlexTime{}
	restarted.Status = models.StatusAccepted

	s.upsert(restarted)
	s.logger.Info("challenge restarted",
		zap.String("participation_id", participationID),
		zap.Int("times_completed", restarted.TimesCompleted),
	)
	return restarted, nil
}

// Assign invites another user to a challenge. The resulting link belongs to
// the target user, so the local store is untouched.
func (s *Service) Assign(ctx context.Context, challengeID, targetUserID string) error {
	if targetUserID == s.userID {
		return ErrSelfAssign
	}

	_, err := s.api.AssignChallenge(ctx, models.AssignRequest{
		ChallengeID: challengeID,
		UserID:      targetUserID,
	})
	if err != nil {
		return err
	}

	s.logger.Info("challenge assigned",
		zap.String("challenge_id", challengeID),
		zap.String("target_user_id", targetUserID),
	)
	return nil
}

func (s *Service) upsert(p models.Participation) {
	s.links.Update(func(links []models.Participation) []models.Participation {
		next := make([]models.Participation, 0, len(links)+1)
		replaced := false
		for _, l := range links {
			if l.ID == p.ID || (p.ID != "" && l.ChallengeID == p.ChallengeID) {
				if !replaced {
					next = append(next, p)
					replaced = true
				}
				continue
			}
			next = append(next, l)
		}
		if !replaced {
			next = append(next, p)
		}
		return next
	})
}

func (s *Service) remove(id string) {
	s.links.Update(func(links []models.Participation) []models.Participation {
		next := make([]models.Participation, 0, len(links))
		for _, l := range links {
			if l.ID != id {
				next = append(next, l)
			}
		}
		return next
	})
}
