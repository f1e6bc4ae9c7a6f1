package notification

import "time"

// Notification represents a notification delivered to a single user
type Notification struct {
	ID             int64         `json:"-"` // storage id, never exposed
	NotificationID string        `json:"notification_id"`
	RecipientID    string        `json:"recipient_id"`
	RecipientRole  RecipientRole `json:"recipient_role"`
	EventType      EventType     `json:"event_type"`
	EventKey       string        `json:"-"`
	WorkID         string        `json:"work_id"`
	CropName       string        `json:"crop_name"`
	WorkLabel      string        `json:"work_label"`
	Message        string        `json:"message"`
	RelatedUserID  *string       `json:"related_user_id,omitempty"` // actor whose action triggered it
	IsRead         bool          `json:"is_read"`
	CreatedAt      time.Time     `json:"created_at"`
}

// RecipientRole is the role the recipient plays on the listing
type RecipientRole string

const (
	RoleFarmer  RecipientRole = "farmer"
	RoleLaborer RecipientRole = "laborer"
)

// EventType represents the lifecycle event a notification reports
type EventType string

const (
	EventApplication  EventType = "application"
	EventWithdrawal   EventType = "withdrawal"
	EventCreation     EventType = "creation"
	EventCompletion   EventType = "completion"
	EventCancellation EventType = "cancellation"
)

// Recipient is one addressee of an event together with the text they receive
type Recipient struct {
	UserID        string
	Role          RecipientRole
	Message       string
	RelatedUserID string
}

// Event describes a committed listing transition to fan out.
// Key identifies the occurrence: emitting the same Key twice never creates a
// second notification for the same recipient in the same role.
type Event struct {
	Key        string
	Type       EventType
	WorkID     string
	CropName   string
	WorkLabel  string
	Recipients []Recipient
}
