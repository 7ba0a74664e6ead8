package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
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
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ShortDate formats a schedule date as "Jan 2 2006".
func ShortDate(t time.Time) string {
	return t.Format("Jan 2 2006")
}

// DateRange formats a start/finish pair, collapsing same-day ranges.
func DateRange(start, finish *time.Time) string {
	if start == nil || finish == nil {
		return StyleDim.Render("unscheduled")
	}
	if start.Equal(*finish) {
		return ShortDate(*start)
	}
	return fmt.Sprintf("%s → %s", ShortDate(*start), ShortDate(*finish))
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours renders a duration in hours as working days and hours,
// assuming an 8-hour working day.
func FormatHours(hours float64) string {
	if hours <= 0 {
		return "0h"
	}
	days := int(hours) / 8
	rem := hours - float64(days*8)
	switch {
	case days > 0 && rem > 0:
		return fmt.Sprintf("%dd %gh", days, rem)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	default:
		return fmt.Sprintf("%gh", hours)
	}
}

// Plural appends "s" for counts other than one.
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
