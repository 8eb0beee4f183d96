package models

// UserProfile is the aggregate profile projection served by GET /users/profile.
// The client caches it and mutates it optimistically after completions; the
// next full fetch is authoritative and overwrites the cached copy.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	Points int    `json:"points"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`

	TotalCompletedChallenges int `json:"totalCompletedChallenges"`
	CurrentStreak            int `json:"currentStreak"`

	Badges         []Badge        `json:"badges"`
	RecentActivity []Activity     `json:"recentActivity"`
	SkillBreakdown map[string]int `json:"skillBreakdown,omitempty"`
}

// Activity is one entry of the profile's recent-activity feed.
type Activity struct {
	ChallengeTitle string   `json:"challengeTitle"`
	Status         Status   `json:"status"`
	Date           FlexTime `json:"date"`
	TimesCompleted int      `json:"timesCompleted"`
}

// Friend is a row of the friends list, enough to build the social
// leaderboard and to pick an assignment target.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Points    int    `json:"points"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}
