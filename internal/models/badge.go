package models

// Badge is an immutable achievement catalog entry. A user holding a badge is
// represented by that badge appearing in their award list; awards are created
// once per (user, badge) pair and never revoked.
type Badge struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Criteria     string `json:"criteria"`
	IconURL      string `json:"iconUrl"`
	PointsReward int    `json:"pointsReward"`
}
