package account

import (
	"strings"

	"github.com/nhle/healthmon/internal/model"
)

// Query selects the subset of accounts shown to the operator.
type Query struct {
	// ErrorsOnly restricts the view to accounts with a failure.
	ErrorsOnly bool

	// Search is matched case-insensitively against client and email.
	Search string
}

// IsZero reports whether q selects every account.
func (q Query) IsZero() bool {
	return !q.ErrorsOnly && q.Search == ""
}

// Filter returns the accounts selected by q. The input slice is never
// modified; when q selects everything the input is returned as is.
func Filter(accounts []model.Account, q Query) []model.Account {
	base := accounts
	if q.ErrorsOnly {
		base = WithErrors(accounts)
	}
	if q.Search == "" {
		return base
	}

	needle := strings.ToLower(q.Search)
	out := make([]model.Account, 0, len(base))
	for _, a := range base {
		if strings.Contains(strings.ToLower(a.Client), needle) ||
			strings.Contains(strings.ToLower(a.Email), needle) {
			out = append(out, a)
		}
	}
	return out
}

// WithErrors returns the accounts that carry a failure, in order.
func WithErrors(accounts []model.Account) []model.Account {
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.HasError() {
			out = append(out, a)
		}
	}
	return out
}

// CountErrors returns how many accounts carry a failure.
func CountErrors(accounts []model.Account) int {
	n := 0
	for _, a := range accounts {
		if a.HasError() {
			n++
		}
	}
	return n
}
