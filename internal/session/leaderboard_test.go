package session

import (
	"testing"

	"github.com/challengeme/client/internal/models"
)

func TestStandingsTieBreaksAlphabetically(t *testing.T) {
	self := models.UserProfile{ID: "u1", Username: "mallory", Points: 100}
	friends := []models.Friend{
		{ID: "u2", Username: "bob", Points: 100},
		{ID: "u3", Username: "alice", Points: 100},
	}

	rows := Standings(self, friends)
	wantOrder := []string{"alice", "bob", "mallory"}
	for i, want := range wantOrder {
		if rows[i].Username != want {
			t.Fatalf("order = %v, want %v", usernames(rows), wantOrder)
		}
	}
}

func TestStandingsSkipsSelfDuplicate(t *testing.T) {
	self := models.UserProfile{ID: "u1", Username: "alice", Points: 50}
	friends := []models.Friend{
		{ID: "u1", Username: "alice", Points: 50}, // some deployments echo the caller
		{ID: "u2", Username: "bob", Points: 80},
	}

	rows := Standings(self, friends)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (self listed once)", len(rows))
	}
	if !rows[1].IsCurrentUser {
		t.Error("self row lost its current-user flag")
	}
}

func TestStandingsDeriveLevel(t *testing.T) {
	rows := Standings(models.UserProfile{ID: "u1", Username: "alice", Points: 250}, nil)
	if rows[0].Level != 3 {
		t.Errorf("Level = %d, want 3 for 250 points", rows[0].Level)
	}
}

func usernames(rows []Standing) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Username
	}
	return out
}
