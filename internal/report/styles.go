package report

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorSecondary = lipgloss.Color("245") // Gray
	ColorSuccess   = lipgloss.Color("34")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorMuted     = lipgloss.Color("240") // Dark gray
)

// Styles applies the palette when colour is enabled and is a no-op otherwise.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Category lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
}

// NewStyles returns the coloured styles, or plain ones when styled is false.
func NewStyles(styled bool) Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:    plain,
			Header:   plain,
			Category: plain,
			Success:  plain,
			Warning:  plain,
			Error:    plain,
			Muted:    plain,
			Border:   plain,
		}
	}
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary),
		Category: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Border: lipgloss.NewStyle().
			Foreground(ColorSecondary),
	}
}

// Symbols for visual feedback.
const (
	SymbolCheck      = "✓"
	SymbolCross      = "✗"
	SymbolBullet     = "•"
	SymbolArrowRight = "→"
)
