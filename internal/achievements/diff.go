// Package achievements detects newly unlocked badges around a challenge
// completion by comparing the user's award set before and after the
// completing transition.
package achievements

import "github.com/challengeme/client/internal/models"

// AwardSet is a badge-award set keyed by badge id.
type AwardSet map[string]bool

// NewAwardSet builds an AwardSet from a badge list.
func NewAwardSet(badges []models.Badge) AwardSet {
	set := make(AwardSet, len(badges))
	for _, b := range badges {
		set[b.ID] = true
	}
	return set
}

// Diff returns the badges in after that are absent from before, preserving
// the order the server listed them in.
func Diff(before AwardSet, after []models.Badge) []models.Badge {
	var fresh []models.Badge
	for _, b := range after {
		if !before[b.ID] {
			fresh = append(fresh, b)
		}
	}
	return fresh
}
