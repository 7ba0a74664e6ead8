package engine

import (
	"fmt"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
)

// Repair operations never fail on a structurally imperfect project: they
// report every correction made and report nothing when the project is
// already clean, so a second call on repaired input is always a no-op.

// RepairBrokenReferences drops every predecessor link whose outline number
// does not resolve to an existing task.
func RepairBrokenReferences(p *domain.Project) []contract.ReferenceFix {
	g := NewGraph(p)
	var fixes []contract.ReferenceFix
	for _, outline := range g.Outlines() {
		t := g.tasks[outline]
		var removed []string
		kept := t.Predecessors[:0]
		for _, link := range t.Predecessors {
			if _, ok := g.tasks[link.RefOutline]; !ok {
				removed = append(removed, link.RefOutline)
				continue
			}
			kept = append(kept, link)
		}
		t.Predecessors = kept
		if len(removed) > 0 {
			fixes = append(fixes, contract.ReferenceFix{
				TaskOutline:       outline,
				RemovedReferences: removed,
			})
		}
	}
	return fixes
}

// RepairUnreasonableLags clamps predecessor lags whose magnitude exceeds
// maxDays. The clamped lag keeps its sign and is rewritten in day units.
func RepairUnreasonableLags(p *domain.Project, cal *calendar.Calendar, maxDays float64) []contract.LagFix {
	g := NewGraph(p)
	var fixes []contract.LagFix
	for _, outline := range g.Outlines() {
		t := g.tasks[outline]
		for i := range t.Predecessors {
			link := &t.Predecessors[i]
			lagDays := link.Lag
			if link.LagFormat == domain.LagHours {
				lagDays = cal.HoursToDays(link.Lag)
			}
			if lagDays <= maxDays && lagDays >= -maxDays {
				continue
			}
			clamped := maxDays
			if lagDays < 0 {
				clamped = -maxDays
			}
			fixes = append(fixes, contract.LagFix{
				TaskOutline: outline,
				Predecessor: link.RefOutline,
				OldLagDays:  lagDays,
				NewLagDays:  clamped,
			})
			link.Lag = clamped
			link.LagFormat = domain.LagDays
		}
	}
	return fixes
}

// EnforceInvariants repairs every modeled summary/milestone/constraint
// invariant:
//
//   - summary tasks lose predecessors, constraints, and the milestone flag
//   - links pointing at a summary task are removed from the successor
//   - milestones are forced to zero duration
//   - a date-requiring constraint without a date resets to ASAP
//   - outline level is realigned with the outline number's segment count
func EnforceInvariants(p *domain.Project) []contract.InvariantFix {
	g := NewGraph(p)
	var fixes []contract.InvariantFix

	record := func(outline, field, format string, args ...any) {
		fixes = append(fixes, contract.InvariantFix{
			TaskOutline: outline,
			Field:       field,
			Detail:      fmt.Sprintf(format, args...),
		})
	}

	for _, outline := range g.Outlines() {
		t := g.tasks[outline]

		if level := outlineLevel(outline); t.OutlineLevel != level {
			record(outline, "outline_level", "corrected level %d to %d", t.OutlineLevel, level)
			t.OutlineLevel = level
		}

		if g.IsSummary(outline) {
			if len(t.Predecessors) > 0 {
				record(outline, "predecessors", "removed %d predecessor link(s) from summary task", len(t.Predecessors))
				t.Predecessors = nil
			}
			if t.ConstraintType != domain.ConstraintASAP && t.ConstraintType != "" {
				record(outline, "constraint_type", "summary task constraint %s reset to asap", t.ConstraintType)
				t.ConstraintType = domain.ConstraintASAP
				t.ConstraintDate = nil
			}
			if t.ConstraintDate != nil {
				record(outline, "constraint_date", "cleared constraint date on summary task")
				t.ConstraintDate = nil
			}
			if t.IsMilestone {
				record(outline, "is_milestone", "summary task cannot be a milestone")
				t.IsMilestone = false
			}
			continue
		}

		// Leaf task: strip links that point at summary tasks.
		kept := t.Predecessors[:0]
		for _, link := range t.Predecessors {
			if _, ok := g.tasks[link.RefOutline]; ok && g.IsSummary(link.RefOutline) {
				record(outline, "predecessors", "removed link to summary task %s", link.RefOutline)
				continue
			}
			kept = append(kept, link)
		}
		t.Predecessors = kept

		if t.IsMilestone && t.DurationHours != 0 {
			record(outline, "duration", "milestone duration %.2fh forced to zero", t.DurationHours)
			t.DurationHours = 0
		}

		if t.ConstraintType.RequiresDate() && t.ConstraintDate == nil {
			record(outline, "constraint_type", "constraint %s has no date, reset to asap", t.ConstraintType)
			t.ConstraintType = domain.ConstraintASAP
		}
	}
	return fixes
}
