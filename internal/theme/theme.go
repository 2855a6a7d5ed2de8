package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}

	ColorSuccess = ColorGreen
	ColorError   = ColorRed
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps bordered content areas such as the inspector.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// RowStyle is the base style for a table row.
var RowStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedRowStyle highlights the row under the cursor.
var SelectedRowStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ColumnHeaderStyle renders table column titles.
var ColumnHeaderStyle = lipgloss.NewStyle().
	PaddingLeft(2).
	Bold(true).
	Foreground(ColorGray).
	Border(lipgloss.NormalBorder(), false, false, true, false).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle is used for secondary text such as empty-state hints.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ErrorTextStyle renders an account's failure description.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// HealthyTextStyle renders the placeholder shown for healthy accounts.
var HealthyTextStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// BadgeStyle renders a filter badge in the header, highlighted when active.
func BadgeStyle(active bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if active {
		return base.Foreground(ColorWhite).Background(ColorMagenta)
	}
	return base.Foreground(ColorGray)
}

// ProtocolStyle returns a color-coded style for an account protocol label.
func ProtocolStyle(protocol string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch protocol {
	case "SMTP":
		return base.Foreground(ColorBlue)
	case "IMAP":
		return base.Foreground(ColorGreen)
	case "GMAIL", "OUTLOOK":
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// ScanStatusStyle returns a color-coded style for a history entry status.
func ScanStatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case "completed":
		return base.Foreground(ColorGreen)
	case "failed":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
