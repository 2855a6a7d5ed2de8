package model

import "strings"

// Protocol values produced by normalization. Other upper-cased provider
// types reported by the API are passed through unchanged.
const (
	ProtocolSMTP = "SMTP"
	ProtocolIMAP = "IMAP"
)

// Default display values substituted when a record lacks a field.
const (
	DefaultClient = "N/A"
	DefaultEmail  = "Unknown Email"
)

// Account is the normalized, display-ready view of one email account
// returned by the sending platform.
type Account struct {
	// ID is the platform identifier, or the positional index of the
	// record within the scan when the platform did not supply one.
	ID string `json:"id" db:"account_id"`

	// Client is the client, owner or sender name.
	Client string `json:"client" db:"client"`

	// Protocol is the upper-cased provider type (SMTP, IMAP, ...).
	Protocol string `json:"protocol" db:"protocol"`

	// Email is the sending address.
	Email string `json:"email" db:"email"`

	// Error is the extracted failure description; empty when healthy.
	Error string `json:"error" db:"error"`
}

// HasError reports whether the account carries a non-blank failure.
func (a Account) HasError() bool {
	return strings.TrimSpace(a.Error) != ""
}
