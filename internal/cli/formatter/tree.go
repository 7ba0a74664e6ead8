package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// FormatTaskTree renders a task list as an indented outline tree. Summary
// tasks are bold, milestones get a diamond marker, and each row carries a
// right-aligned date badge. Tasks must already be in outline order.
func FormatTaskTree(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return StyleDim.Render("No tasks")
	}

	summaries := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if parent := t.ParentOutline(); parent != "" {
			summaries[parent] = true
		}
	}

	type line struct {
		content string
		badge   string
	}

	lines := make([]line, len(tasks))
	maxWidth := 0
	for i, t := range tasks {
		var prefix string
		for l := 1; l < t.OutlineLevel; l++ {
			prefix += treePipe
		}
		if t.OutlineLevel > 1 {
			if isLastSibling(tasks, i) {
				prefix = strings.TrimSuffix(prefix, treePipe) + treeCorner
			} else {
				prefix = strings.TrimSuffix(prefix, treePipe) + treeBranch
			}
		}

		number := StyleDim.Render(t.OutlineNumber + " ")
		title := t.Name
		switch {
		case summaries[t.OutlineNumber]:
			title = StyleBold.Render(title)
		case t.IsMilestone:
			title = StylePurple.Render("◆ " + title)
		}
		if t.PercentComplete >= 100 {
			title = StyleGreen.Render("✔ ") + Dim(t.Name)
		}

		content := prefix + number + title
		lines[i].content = content

		badge := DateRange(t.Start, t.Finish)
		if !summaries[t.OutlineNumber] && !t.IsMilestone && t.DurationHours > 0 {
			badge = Dim(FormatHours(t.DurationHours)) + "  " + badge
		}
		lines[i].badge = badge

		if w := lipgloss.Width(content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		pad := maxWidth - lipgloss.Width(li.content)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}
	return b.String()
}

// isLastSibling reports whether tasks[i] is the final child of its parent
// within the outline-ordered slice.
func isLastSibling(tasks []*domain.Task, i int) bool {
	parent := tasks[i].ParentOutline()
	for _, t := range tasks[i+1:] {
		if t.ParentOutline() == parent {
			return false
		}
		if !strings.HasPrefix(t.OutlineNumber, parent+".") {
			return true
		}
	}
	return true
}

// FormatPredecessors renders one task's dependency list like "2.1 FS+3d".
func FormatPredecessors(links []domain.PredecessorLink) string {
	if len(links) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(links))
	for i, link := range links {
		s := link.RefOutline + " " + string(link.Type)
		if link.Lag != 0 {
			unit := "d"
			if link.LagFormat == domain.LagHours {
				unit = "h"
			}
			s += fmt.Sprintf("%+g%s", link.Lag, unit)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}
