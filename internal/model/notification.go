package model

// Severity classifies a transient notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a transient message shown to the operator and dismissed
// automatically after a fixed delay.
type Notification struct {
	// Message is the human-readable text.
	Message string `json:"message"`

	// Severity selects success or error styling.
	Severity Severity `json:"severity"`
}
