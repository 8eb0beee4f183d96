package rewards

import (
	"testing"

	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/store"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		points, want int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
	}

	for _, tt := range tests {
		if got := Level(tt.points); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	into, span := LevelProgress(250)
	if into != 50 || span != 100 {
		t.Errorf("LevelProgress(250) = (%d, %d), want (50, 100)", into, span)
	}
}

func TestApplyCompletion(t *testing.T) {
	profile := store.New(models.UserProfile{
		Points:                   90,
		Level:                    1,
		TotalCompletedChallenges: 4,
	})
	s := NewService(profile, nil)

	s.ApplyCompletion(150)

	got := profile.Get()
	if got.Points != 240 {
		t.Errorf("Points = %d, want 240 (exactly +150)", got.Points)
	}
	if got.TotalCompletedChallenges != 5 {
		t.Errorf("TotalCompletedChallenges = %d, want 5 (exactly +1)", got.TotalCompletedChallenges)
	}
	if got.Level != 3 {
		t.Errorf("Level = %d, want 3 (re-derived from 240 points)", got.Level)
	}
}

func TestApplyCompletionTouchesNothingElse(t *testing.T) {
	profile := store.New(models.UserProfile{
		Username:      "alice",
		CurrentStreak: 3,
		Badges:        []models.Badge{{ID: "b1"}},
	})
	s := NewService(profile, nil)

	s.ApplyCompletion(10)

	got := profile.Get()
	if got.Username != "alice" || got.CurrentStreak != 3 || len(got.Badges) != 1 {
		t.Errorf("unrelated profile fields changed: %+v", got)
	}
}

func TestApplyBadge(t *testing.T) {
	profile := store.New(models.UserProfile{Points: 50})
	s := NewService(profile, nil)

	b := models.Badge{ID: "b1", Name: "First Steps", PointsReward: 25}
	s.ApplyBadge(b)

	got := profile.Get()
	if len(got.Badges) != 1 || got.Badges[0].ID != "b1" {
		t.Fatalf("Badges = %v, want [b1]", got.Badges)
	}
	// The badge's own point reward is credited server-side only.
	if got.Points != 50 {
		t.Errorf("Points = %d, want 50 unchanged", got.Points)
	}
}

func TestApplyBadgeIsIdempotent(t *testing.T) {
	profile := store.New(models.UserProfile{})
	s := NewService(profile, nil)

	b := models.Badge{ID: "b1"}
	s.ApplyBadge(b)
	s.ApplyBadge(b)

	if got := len(profile.Get().Badges); got != 1 {
		t.Errorf("Badges = %d entries after double apply, want 1", got)
	}
}
