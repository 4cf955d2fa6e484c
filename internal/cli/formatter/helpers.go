package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// TargetDateStyled renders a target date relative to now, red when overdue
// or within two days and yellow within a week.
func TargetDateStyled(t time.Time, now time.Time) string {
	text := t.Format("2006-01-02") + " (" + RelativeDateFrom(t, now) + ")"
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// PlanStatusPill returns a colored indicator for a plan status.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanActive:
		return StyleGreen.Render("● Active")
	case domain.PlanClosed:
		return StyleDim.Render("✖ Closed")
	default:
		return StyleDim.Render(string(status))
	}
}

// StatusPill returns a colored indicator for a node status.
func StatusPill(status domain.Status) string {
	if status == "" {
		return StyleDim.Render("--")
	}
	return StatusColor(status).Render("● " + string(status))
}

// KindBadge returns a capitalized, purple-styled kind label.
func KindBadge(k domain.Kind) string {
	if k == "" {
		return StyleDim.Render("--")
	}
	s := string(k)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// TagList renders tags as dim #tag words.
func TagList(tags []string) string {
	if len(tags) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return StyleBlue.Render(strings.Join(parts, " "))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OrDash returns s, or a dim "--" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
