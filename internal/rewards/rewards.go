// Package rewards applies completion rewards to the locally cached user
// profile so XP and level displays update instantly, without waiting for the
// next full profile fetch.
package rewards

import (
	"go.uber.org/zap"

	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/store"
)

// Level returns the progression tier for a point total: floor(points/100)+1.
func Level(points int) int {
	return points/100 + 1
}

// LevelProgress returns how far into the current level the point total is,
// out of the 100 points each level spans.
func LevelProgress(points int) (into, span int) {
	return points % 100, 100
}

// Service mutates the cached profile optimistically. The server may apply
// extra logic the client does not model (streak bonuses, badge point
// rewards); the cached copy stays ahead-but-approximate until the next
// authoritative profile fetch replaces it.
type Service struct {
	profile *store.Store[models.UserProfile]
	logger  *zap.Logger
}

// NewService builds a reward applier over the given profile store.
func NewService(profile *store.Store[models.UserProfile], logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{profile: profile, logger: logger.Named("rewards")}
}

// ApplyCompletion credits a completed challenge: points go up by exactly the
// challenge's point value, the completed count by exactly one, and the level
// is re-derived from the new total. Nothing else changes.
func (s *Service) ApplyCompletion(points int) {
	s.profile.Update(func(p models.UserProfile) models.UserProfile {
		p.Points += points
		p.TotalCompletedChallenges++
		p.Level = Level(p.Points)
		return p
	})
	s.logger.Debug("completion reward applied", zap.Int("points", points))
}

// ApplyBadge records a newly unlocked badge on the cached profile. The
// badge's own point reward is credited server-side and shows up on the next
// profile fetch; crediting it here too would double-count.
func (s *Service) ApplyBadge(badge models.Badge) {
	s.profile.Update(func(p models.UserProfile) models.UserProfile {
		for _, b := range p.Badges {
			if b.ID == badge.ID {
				return p
			}
		}
		badges := make([]models.Badge, len(p.Badges), len(p.Badges)+1)
		copy(badges, p.Badges)
		p.Badges = append(badges, badge)
		return p
	})
	s.logger.Debug("badge recorded", zap.String("badge", badge.Name))
}
