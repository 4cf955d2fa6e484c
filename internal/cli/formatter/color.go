package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// tokenColors maps the cosmetic color tokens stored on nodes to the palette.
var tokenColors = map[string]lipgloss.Style{
	"green":  StyleGreen,
	"yellow": StyleYellow,
	"red":    StyleRed,
	"blue":   StyleBlue,
	"purple": StylePurple,
	"gray":   StyleDim,
}

// StatusColor returns the lipgloss style for a node status.
func StatusColor(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusReleased, domain.StatusReadyForRelease:
		return StyleGreen
	case domain.StatusInProgress, domain.StatusReview, domain.StatusTesting:
		return StyleYellow
	case domain.StatusBlocked:
		return StyleRed
	case domain.StatusPlanning:
		return StyleBlue
	default:
		return StyleDim
	}
}

// TokenStyle returns the style for a node color token, dim when unknown.
func TokenStyle(token string) lipgloss.Style {
	if s, ok := tokenColors[token]; ok {
		return s
	}
	return StyleDim
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
