package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/falsework/internal/contract"
)

// FormatScheduleResult summarizes one date propagation run.
func FormatScheduleResult(r *contract.ScheduleResult) string {
	if r.Failed() {
		return fmt.Sprintf("%s scheduled %s, %s left unresolved: %s",
			StyleYellow.Render("⚠"),
			Plural(r.Resolved, "task"),
			Plural(len(r.Unresolved), "task"),
			StyleRed.Render(strings.Join(r.Unresolved, ", ")))
	}
	return fmt.Sprintf("%s scheduled %s", StyleGreen.Render("✔"), Plural(r.Resolved, "task"))
}

// FormatFixReport renders each repair category as its own section, quiet
// categories omitted.
func FormatFixReport(r *contract.FixReport) string {
	var b strings.Builder

	if len(r.ReferenceFixes) > 0 {
		b.WriteString(Header("Broken references") + "\n")
		for _, fix := range r.ReferenceFixes {
			b.WriteString(fmt.Sprintf("  %s dropped %s\n",
				StyleDim.Render(fix.TaskOutline),
				strings.Join(fix.RemovedReferences, ", ")))
		}
		b.WriteString("\n")
	}

	if len(r.CycleFixes) > 0 {
		b.WriteString(Header("Dependency cycles") + "\n")
		for _, fix := range r.CycleFixes {
			b.WriteString(fmt.Sprintf("  %s  removed link %s → %s\n",
				StyleDim.Render(strings.Join(fix.CyclePath, " → ")),
				fix.RemovedPredecessor, fix.TaskOutline))
		}
		b.WriteString("\n")
	}

	if len(r.LagFixes) > 0 {
		b.WriteString(Header("Unreasonable lags") + "\n")
		for _, fix := range r.LagFixes {
			b.WriteString(fmt.Sprintf("  %s on %s: %gd clamped to %gd\n",
				StyleDim.Render(fix.Predecessor), fix.TaskOutline,
				fix.OldLagDays, fix.NewLagDays))
		}
		b.WriteString("\n")
	}

	if len(r.InvariantFixes) > 0 {
		b.WriteString(Header("Invariants") + "\n")
		for _, fix := range r.InvariantFixes {
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				StyleDim.Render(fix.TaskOutline), fix.Field, fix.Detail))
		}
		b.WriteString("\n")
	}

	if r.TotalChanges() == 0 {
		b.WriteString(StyleGreen.Render("✔") + " no repairs needed\n")
	} else {
		b.WriteString(fmt.Sprintf("%s made\n", Plural(r.TotalChanges(), "repair")))
	}
	if r.Schedule != nil {
		b.WriteString(FormatScheduleResult(r.Schedule) + "\n")
	}
	return b.String()
}

// FormatEditResult summarizes a structural edit: what appeared, what went,
// and how outline numbers shifted.
func FormatEditResult(r *contract.EditResult) string {
	var b strings.Builder

	if len(r.Created) > 0 {
		b.WriteString(fmt.Sprintf("%s created %s\n",
			StyleGreen.Render("+"), strings.Join(r.Created, ", ")))
	}
	if len(r.Deleted) > 0 {
		b.WriteString(fmt.Sprintf("%s removed %s\n",
			StyleRed.Render("-"), strings.Join(r.Deleted, ", ")))
	}
	for _, fix := range r.CycleFixes {
		b.WriteString(fmt.Sprintf("%s broke cycle %s\n",
			StyleYellow.Render("⚠"), StyleDim.Render(strings.Join(fix.CyclePath, " → "))))
	}
	if len(r.OutlineMapping) > 0 {
		b.WriteString(Dim(formatMapping(r.OutlineMapping)) + "\n")
	}
	if b.Len() == 0 {
		return Dim("no changes") + "\n"
	}
	return b.String()
}

// FormatReorganizeResult lists the synthesized phases and their task counts.
func FormatReorganizeResult(r *contract.ReorganizeResult) string {
	var b strings.Builder
	b.WriteString(Header("Phases") + "\n")
	for _, phase := range r.Phases {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			StyleDim.Render(phase.Outline),
			Bold(phase.Name),
			Dim(Plural(phase.TaskCount, "task"))))
	}
	return b.String()
}

func formatMapping(mapping map[string]string) string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	const maxShown = 6
	parts := make([]string, 0, maxShown+1)
	for i, k := range keys {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("… %d more", len(keys)-maxShown))
			break
		}
		parts = append(parts, k+"→"+mapping[k])
	}
	return "renumbered: " + strings.Join(parts, ", ")
}
