package accounts

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nhle/healthmon/internal/model"
	"github.com/nhle/healthmon/internal/theme"
)

// healthyText fills the error column for accounts without a failure.
const healthyText = "No issues"

// columns holds the cell widths for one terminal width.
type columns struct {
	id       int
	client   int
	email    int
	protocol int
	errText  int
}

// newColumns splits width between the five columns. ID, client and email
// get fixed shares; the error column takes what is left.
func newColumns(width int) columns {
	usable := max(width-4, 40)
	c := columns{
		id:       max(usable*8/100, 4),
		client:   max(usable*22/100, 8),
		email:    max(usable*25/100, 12),
		protocol: 9,
	}
	c.errText = max(usable-c.id-c.client-c.email-c.protocol-4, 10)
	return c
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(ansi.Truncate(s, width, "…"))
}

func (c columns) header() string {
	line := cell("ID", c.id) + " " +
		cell("CLIENT", c.client) + " " +
		cell("PROTOCOL", c.protocol) + " " +
		cell("EMAIL", c.email) + " " +
		cell("ERROR", c.errText)
	return theme.ColumnHeaderStyle.Render(line)
}

func (c columns) row(a model.Account, selected bool) string {
	errCell := theme.HealthyTextStyle.Render(cell(healthyText, c.errText))
	if a.HasError() {
		errCell = theme.ErrorTextStyle.Render(cell(a.Error, c.errText))
	}

	line := theme.DimmedStyle.Render(cell(a.ID, c.id)) + " " +
		cell(a.Client, c.client) + " " +
		theme.ProtocolStyle(a.Protocol).Render(cell(a.Protocol, c.protocol)) + " " +
		cell(a.Email, c.email) + " " +
		errCell

	if selected {
		return theme.SelectedRowStyle.Render(line)
	}
	return theme.RowStyle.Render(line)
}
