package models

// Difficulty is the complexity tier of a challenge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Challenge is an immutable challenge definition from the catalog.
// Only its author may edit or delete it.
type Challenge struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	CreatedBy   string     `json:"createdBy"`
}

// ChallengeDraft is the payload for creating or editing a challenge.
type ChallengeDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	CreatedBy   string     `json:"createdBy,omitempty"`
}
