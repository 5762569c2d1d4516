package cli

import (
	"budgettracker/internal/core"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#60A5FA")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#34D399")
	// WarningColor is used from 80% of the budget.
	WarningColor = lipgloss.Color("#F59E0B")
	// ErrorColor is used for errors and an exhausted budget.
	ErrorColor = lipgloss.Color("#F43F5E")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#94A3B8")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "i"
)

// DisableColor switches every style to plain text.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SeverityStyle colours budget usage: green, amber from 80%, red from 100%.
func SeverityStyle(s core.Severity) lipgloss.Style {
	switch s {
	case core.SeverityDanger:
		return ErrorStyle
	case core.SeverityWarning:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
