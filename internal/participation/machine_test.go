package participation

import (
	"errors"
	"testing"

	"github.com/challengeme/client/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusPending, models.StatusAccepted, true},
		{models.StatusAccepted, models.StatusCompleted, true},
		{models.StatusCompleted, models.StatusAccepted, true}, // restart

		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusAccepted, models.StatusPending, false},
		{models.StatusAccepted, models.StatusAccepted, false},
		{models.StatusCompleted, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	if err := CheckTransition(models.StatusAccepted, models.StatusCompleted); err != nil {
		t.Errorf("CheckTransition(ACCEPTED, COMPLETED) = %v, want nil", err)
	}

	err := CheckTransition(models.StatusPending, models.StatusCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CheckTransition(PENDING, COMPLETED) = %v, want ErrInvalidTransition", err)
	}
}

func TestCheckTransitionRejectsUnknownStatus(t *testing.T) {
	tests := []struct {
		name     string
		from, to models.Status
	}{
		{"unknown from", models.Status("ARCHIVED"), models.StatusAccepted},
		{"unknown to", models.StatusAccepted, models.Status("ARCHIVED")},
		{"empty from", models.Status(""), models.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckTransition(tt.from, tt.to); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("CheckTransition(%q, %q) = %v, want ErrInvalidTransition", tt.from, tt.to, err)
			}
		})
	}
}

func TestCanDecline(t *testing.T) {
	tests := []struct {
		status models.Status
		want   bool
	}{
		{models.StatusPending, true},
		{models.StatusAccepted, false},
		{models.StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanDecline(tt.status); got != tt.want {
			t.Errorf("CanDecline(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
