// Package export formats scan results for the clipboard: the plain list
// of visible emails and the text health report.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/nhle/healthmon/internal/account"
	"github.com/nhle/healthmon/internal/model"
)

// reportTimeLayout renders the generation time in the report header.
const reportTimeLayout = "1/2/2006, 3:04:05 PM"

// Emails returns the email of every account, one per line, in order.
func Emails(accounts []model.Account) string {
	emails := make([]string, len(accounts))
	for i, a := range accounts {
		emails[i] = a.Email
	}
	return strings.Join(emails, "\n")
}

// Report renders the health report for the full scan result.
func Report(accounts []model.Account, generated time.Time) string {
	withErrors := account.WithErrors(accounts)

	lines := []string{
		"Smartlead Health Report",
		"Generated: " + generated.Format(reportTimeLayout),
		"====================================",
		fmt.Sprintf("Total Accounts: %d", len(accounts)),
		fmt.Sprintf("Accounts with Errors: %d", len(withErrors)),
		"\n--- Accounts with Errors ---\n",
	}

	if len(withErrors) == 0 {
		lines = append(lines, "No errors found.")
	} else {
		for _, a := range withErrors {
			lines = append(lines,
				"Client: "+a.Client,
				"Email: "+a.Email,
				"Error: "+a.Error,
				"",
			)
		}
	}

	return strings.Join(lines, "\n")
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the Clipboard backed by the OS clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
