package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders a styled project table inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "STATUS", "START"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			StatusPill(p.Status),
			StyleFg.Render(ShortDate(p.StartDate)),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectInspect renders a project card: metadata on the left, the
// task outline tree on the right.
func FormatProjectInspect(p *domain.Project) string {
	left := buildMetadataPanel(p)
	right := buildSchedulePanel(p)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(p *domain.Project) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STATUS"), StatusPill(p.Status)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), Dim(p.ShortID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID  "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("START "), StyleFg.Render(ShortDate(p.StartDate))))

	if finish := projectFinish(p); finish != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("FINISH"), StyleFg.Render(finish)))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("TASKS "), StyleFg.Render(fmt.Sprintf("%d", len(p.Tasks)))))

	if p.ArchivedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ARCHVD"), ShortDate(*p.ArchivedAt)))
	}

	return lipgloss.NewStyle().Width(40).Render(b.String())
}

func buildSchedulePanel(p *domain.Project) string {
	var b strings.Builder

	headerText := StyleHeader.Render("SCHEDULE")
	if total := len(p.Tasks); total > 0 {
		done := 0
		for _, t := range p.Tasks {
			if t.PercentComplete >= 100 {
				done++
			}
		}
		if done > 0 {
			headerText += "  " + RenderProgress(float64(done)/float64(total), 12)
		}
	}
	b.WriteString(headerText + "\n" + StyleDim.Render(strings.Repeat("─", 8)) + "\n")
	b.WriteString(FormatTaskTree(p.Tasks))

	return b.String()
}

// projectFinish returns the latest finish date across all tasks, or "".
func projectFinish(p *domain.Project) string {
	var latest *domain.Task
	for _, t := range p.Tasks {
		if t.Finish == nil {
			continue
		}
		if latest == nil || t.Finish.After(*latest.Finish) {
			latest = t
		}
	}
	if latest == nil {
		return ""
	}
	return ShortDate(*latest.Finish)
}

// FormatTaskTable renders the flat task table with dependencies, the
// detail-oriented counterpart of the inspect tree.
func FormatTaskTable(tasks []*domain.Task) string {
	headers := []string{"OUTLINE", "NAME", "DUR", "START", "FINISH", "PREDECESSORS"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		start, finish := Dim("--"), Dim("--")
		if t.Start != nil {
			start = ShortDate(*t.Start)
		}
		if t.Finish != nil {
			finish = ShortDate(*t.Finish)
		}
		name := t.Name
		if t.IsMilestone {
			name = "◆ " + name
		}
		rows = append(rows, []string{
			StyleDim.Render(t.OutlineNumber),
			name,
			FormatHours(t.DurationHours),
			start,
			finish,
			FormatPredecessors(t.Predecessors),
		})
	}
	return RenderTable(headers, rows)
}
