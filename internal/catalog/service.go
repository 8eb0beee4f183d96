// Package catalog caches the challenge catalog and handles the author-side
// CRUD for a user's own challenges.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/store"
)

// ErrNotAuthor means the user tried to edit or delete a challenge someone
// else published. Local guard; the server enforces the same rule.
var ErrNotAuthor = errors.New("only the author can modify a challenge")

// API is the challenge slice of the backend client.
type API interface {
	ListChallenges(ctx context.Context) ([]models.Challenge, error)
	ListUserChallenges(ctx context.Context, username string) ([]models.Challenge, error)
	CreateChallenge(ctx context.Context, draft models.ChallengeDraft) (models.Challenge, error)
	UpdateChallenge(ctx context.Context, id string, draft models.ChallengeDraft) (models.Challenge, error)
	DeleteChallenge(ctx context.Context, id string) error
}

// Service holds the read-mostly challenge catalog plus the user's own
// published challenges.
type Service struct {
	api      API
	catalog  *store.Store[[]models.Challenge]
	mine     *store.Store[[]models.Challenge]
	logger   *zap.Logger
	username string
}

// NewService builds a catalog service for the given author username.
func NewService(apiClient API, username string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:      apiClient,
		catalog:  store.New[[]models.Challenge](nil),
		mine:     store.New[[]models.Challenge](nil),
		logger:   logger.Named("catalog"),
		username: username,
	}
}

// Catalog exposes the full-catalog store.
func (s *Service) Catalog() *store.Store[[]models.Challenge] { return s.catalog }

// Mine exposes the own-challenges store.
func (s *Service) Mine() *store.Store[[]models.Challenge] { return s.mine }

// Refresh replaces the catalog cache from the server.
func (s *Service) Refresh(ctx context.Context) error {
	list, err := s.api.ListChallenges(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	s.catalog.Set(list)
	return nil
}

// RefreshMine replaces the own-challenges cache from the server.
func (s *Service) RefreshMine(ctx context.Context) error {
	list, err := s.api.ListUserChallenges(ctx, s.username)
	if err != nil {
		return fmt.Errorf("refresh own challenges: %w", err)
	}
	s.mine.Set(list)
	return nil
}

// Find looks a challenge up in the cached catalog.
func (s *Service) Find(id string) (models.Challenge, bool) {
	for _, c := range s.catalog.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Challenge{}, false
}

// Create publishes a new challenge authored by the current user and folds it
// into both caches.
func (s *Service) Create(ctx context.Context, draft models.ChallengeDraft) (models.Challenge, error) {
	draft.CreatedBy = s.username
	created, err := s.api.CreateChallenge(ctx, draft)
	if err != nil {
		return models.Challenge{}, err
	}

	s.catalog.Update(func(list []models.Challenge) []models.Challenge {
		return append(append([]models.Challenge(nil), list...), created)
	})
	s.mine.Update(func(list []models.Challenge) []models.Challenge {
		return append(append([]models.Challenge(nil), list...), created)
	})
	s.logger.Info("challenge created", zap.String("id", created.ID), zap.String("title", created.Title))
	return created, nil
}

// Update edits one of the user's own challenges.
func (s *Service) Update(ctx context.Context, id string, draft models.ChallengeDraft) (models.Challenge, error) {
	if c, ok := s.Find(id); ok && c.CreatedBy != s.username {
		return models.Challenge{}, ErrNotAuthor
	}

	updated, err := s.api.UpdateChallenge(ctx, id, draft)
	if err != nil {
		return models.Challenge{}, err
	}

	replace := func(list []models.Challenge) []models.Challenge {
		next := make([]models.Challenge, len(list))
		copy(next, list)
		for i := range next {
			if next[i].ID == id {
				next[i] = updated
			}
		}
		return next
	}
	s.catalog.Update(replace)
	s.mine.Update(replace)
	return updated, nil
}

// Delete removes one of the user's own challenges.
func (s *Service) Delete(ctx context.Context, id string) error {
	if c, ok := s.Find(id); ok && c.CreatedBy != s.username {
		return ErrNotAuthor
	}

	if err := s.api.DeleteChallenge(ctx, id); err != nil {
		return err
	}

	drop := func(list []models.Challenge) []models.Challenge {
		next := make([]models.Challenge, 0, len(list))
		for _, c := range list {
			if c.ID != id {
				next = append(next, c)
			}
		}
		return next
	}
	s.catalog.Update(drop)
	s.mine.Update(drop)
	s.logger.Info("challenge deleted", zap.String("id", id))
	return nil
}
