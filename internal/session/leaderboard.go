package session

import (
	"sort"

	"github.com/challengeme/client/internal/models"
	"github.com/challengeme/client/internal/rewards"
)

// Standing is one row of the social leaderboard.
type Standing struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	Points        int    `json:"points"`
	Level         int    `json:"level"`
	IsCurrentUser bool   `json:"isCurrentUser"`
}

// Standings ranks the user and their friends by points, descending. Ties
// break alphabetically by username so the ordering is stable across polls.
func Standings(self models.UserProfile, friends []models.Friend) []Standing {
	rows := make([]Standing, 0, len(friends)+1)
	rows = append(rows, Standing{
		UserID:        self.ID,
		Username:      self.Username,
		Points:        self.Points,
		IsCurrentUser: true,
	})
	for _, f := range friends {
		if f.ID == self.ID {
			continue // some deployments include the caller in the list
		}
		rows = append(rows, Standing{
			UserID:   f.ID,
			Username: f.Username,
			Points:   f.Points,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Username < rows[j].Username
	})

	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Level = rewards.Level(rows[i].Points)
	}
	return rows
}
