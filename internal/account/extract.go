// Package account turns raw Smartlead account records into normalized
// accounts and derives the filtered views shown to the operator.
package account

import "github.com/nhle/healthmon/internal/record"

// genericErrorKeys are checked in order after the protocol specific fields.
// The order decides which message wins when several are populated.
var genericErrorKeys = []string{
	"latest_mailbox_issue_message",
	"error_message",
	"status_message",
	"error_description",
	"error",
	"detail",
}

// ExtractError returns the highest priority failure description found in
// r, or "" when the account looks healthy.
func ExtractError(r record.Record) string {
	if v, ok := r.NonBlank("smtp_failure_error"); ok {
		return "SMTP Error: " + v
	}
	if v, ok := r.NonBlank("imap_failure_error"); ok {
		return "IMAP Error: " + v
	}
	if v, ok := r.Nested("warmup_details").NonBlank("blocked_reason"); ok {
		return "Warmup Blocked: " + v
	}

	for _, k := range genericErrorKeys {
		if v, ok := r.NonBlank(k); ok {
			return v
		}
	}

	if ok, present := r.Bool("is_smtp_success"); present && !ok {
		return "SMTP Connection Failed"
	}
	if ok, present := r.Bool("is_imap_success"); present && !ok {
		return "IMAP Connection Failed"
	}
	if issue, _ := r.Bool("mailbox_issue"); issue {
		return "Generic mailbox issue detected"
	}

	return ""
}
