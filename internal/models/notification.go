package models

// NotificationKind discriminates what a notification is about.
type NotificationKind string

const (
	NotificationChallenge          NotificationKind = "CHALLENGE"
	NotificationChallengeCompleted NotificationKind = "CHALLENGE_COMPLETED"
	NotificationBadge              NotificationKind = "BADGE"
	NotificationSystem             NotificationKind = "SYSTEM"
)

// Notification is a server-generated feed entry. The client only ever flips
// the read flag; it never creates or deletes notifications.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Message   string           `json:"message"`
	Type      NotificationKind `json:"type"`
	IsRead    bool             `json:"isRead"`
	Timestamp FlexTime         `json:"timestamp"`
}

// MarkReadRequest is the PATCH body for flipping the read flag.
type MarkReadRequest struct {
	IsRead bool `json:"isRead"`
}
