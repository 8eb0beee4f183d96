package models

// Status is the lifecycle state of a user's participation in a challenge.
// Decline is not a status: declining deletes the participation row.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted:
		return true
	}
	return false
}

// Participation links one user to one challenge and tracks its lifecycle.
// Challenge metadata is denormalized onto the record so list views need no
// extra catalog lookups.
type Participation struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Username string `json:"username"`

	ChallengeID        string `json:"challengeId"`
	ChallengeTitle     string `json:"challengeTitle"`
	Description        string `json:"description"`
	Points             int    `json:"points"`
	Category           string `json:"category"`
	Difficulty         string `json:"difficulty"`
	ChallengeCreatedBy string `json:"challengeCreatedBy"`

	AssignedByUsername string `json:"assignedByUsername,omitempty"`
	TimesCompleted     int    `json:"timesCompleted"`

	Status        Status   `json:"status"`
	StartDate     FlexTime `json:"startDate"`
	DateAccepted  FlexTime `json:"dateAccepted"`
	DateCompleted FlexTime `json:"dateCompleted"`
	Deadline      Date     `json:"deadline"`
}

// Terminal reports whether the participation is in a reopenable end state.
// COMPLETED is terminal but may be restarted back to ACCEPTED.
func (p Participation) Terminal() bool {
	return p.Status == StatusCompleted
}

// AcceptRequest is the contract body for POST /challenge-users/{challengeId}/accept.
type AcceptRequest struct {
	Status         Status `json:"status"`
	StartDate      Date   `json:"startDate"`
	TargetDeadline Date   `json:"targetDeadline"`
}

// StatusUpdateRequest is the body for PUT /challenges/{participationId}/status.
type StatusUpdateRequest struct {
	Status Status `json:"status"`
}

// AssignRequest is the body for POST /challenge-users/assign.
type AssignRequest struct {
	ChallengeID string `json:"challengeId"`
	UserID      string `json:"userId"`
}
