package engine

import (
	"sort"
	"time"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
)

// RecomputeDates computes start/finish dates for every task from the
// project anchor, predecessor links, lags, and the working calendar.
//
// Phase A resolves non-summary tasks by repeated readiness sweeps: a task
// is ready once every resolvable predecessor has dates. Propagation order
// is not pre-sorted topologically, so the sweep loop self-converges,
// bounded at 2x the task count. Phase B rolls summary date ranges up from
// their descendants, deepest level first.
//
// Only finish-to-start semantics drive the computation; the other link
// types are carried in the model but not separately scheduled. Successors
// start on the first working day after the predecessor's finish, shifted
// by the link lag.
//
// A calendar arithmetic failure (degenerate work week) aborts with the
// calendar's error. Exhausting the sweep bound leaves the survivors
// unresolved and reports them; it never defaults their dates.
func RecomputeDates(p *domain.Project, cal *calendar.Calendar) (*contract.ScheduleResult, error) {
	g := NewGraph(p)

	var leaves []string
	for _, o := range g.Outlines() {
		if !g.IsSummary(o) {
			leaves = append(leaves, o)
		}
	}

	resolved := make(map[string]bool, len(leaves))
	count := 0

	maxSweeps := 2 * len(p.Tasks)
	for sweep := 0; sweep < maxSweeps && count < len(leaves); sweep++ {
		progress := false
		for _, outline := range leaves {
			if resolved[outline] {
				continue
			}
			t := g.tasks[outline]
			start, ready, err := leafStart(t, g, resolved, p.StartDate, cal)
			if err != nil {
				return nil, err
			}
			if !ready {
				continue
			}
			finish, err := leafFinish(t, start, cal)
			if err != nil {
				return nil, err
			}
			t.Start = &start
			t.Finish = &finish
			resolved[outline] = true
			count++
			progress = true
		}
		if !progress {
			break
		}
	}

	result := &contract.ScheduleResult{Resolved: count}
	for _, outline := range leaves {
		if !resolved[outline] {
			result.Unresolved = append(result.Unresolved, outline)
		}
	}

	rollUpSummaries(g, cal)
	return result, nil
}

// leafStart computes the start date for a non-summary task, or reports the
// task not ready because an unresolved predecessor blocks it. Dangling
// references and links to summary tasks never block readiness.
func leafStart(t *domain.Task, g *TaskGraph, resolved map[string]bool, anchor time.Time, cal *calendar.Calendar) (time.Time, bool, error) {
	var latest time.Time
	for _, link := range t.Predecessors {
		pred, ok := g.tasks[link.RefOutline]
		if !ok || g.IsSummary(link.RefOutline) {
			continue
		}
		if !resolved[link.RefOutline] {
			return time.Time{}, false, nil
		}
		lagDays := link.Lag
		if link.LagFormat == domain.LagHours {
			lagDays = cal.HoursToDays(link.Lag)
		}
		candidate, err := cal.AddWorkingDays(*pred.Finish, lagDays+1)
		if err != nil {
			return time.Time{}, false, err
		}
		if candidate.After(latest) {
			latest = candidate
		}
	}

	var start time.Time
	var err error
	if latest.IsZero() {
		start, err = cal.NextWorkingDay(anchor)
	} else {
		start = latest
	}
	if err != nil {
		return time.Time{}, false, err
	}

	start, err = applyStartConstraint(t, start, cal)
	if err != nil {
		return time.Time{}, false, err
	}
	return start, true, nil
}

// applyStartConstraint adjusts a computed start for the two start-side
// constraints the engine honors: a pinned start overrides dependencies,
// and start-no-earlier floors the computed date. The remaining constraint
// types are carried in the model without affecting propagation.
func applyStartConstraint(t *domain.Task, start time.Time, cal *calendar.Calendar) (time.Time, error) {
	if t.ConstraintDate == nil {
		return start, nil
	}
	switch t.ConstraintType {
	case domain.ConstraintMustStartOn:
		return cal.NextWorkingDay(*t.ConstraintDate)
	case domain.ConstraintStartNoEarlier:
		floor, err := cal.NextWorkingDay(*t.ConstraintDate)
		if err != nil {
			return time.Time{}, err
		}
		if floor.After(start) {
			return floor, nil
		}
	}
	return start, nil
}

// leafFinish computes the finish boundary: the start day itself counts as
// worked, so a one-day task finishes the day it starts and a milestone
// finishes immediately.
func leafFinish(t *domain.Task, start time.Time, cal *calendar.Calendar) (time.Time, error) {
	durDays := cal.HoursToDays(t.DurationHours)
	if durDays <= 1 {
		return start, nil
	}
	return cal.AddWorkingDays(start, durDays-1)
}

// rollUpSummaries assigns each summary task the date envelope of its
// descendants, deepest outline level first so nested summaries see settled
// children. Duration becomes the working-day span of the envelope.
func rollUpSummaries(g *TaskGraph, cal *calendar.Calendar) {
	var summaries []*domain.Task
	for _, o := range g.Outlines() {
		if g.IsSummary(o) {
			summaries = append(summaries, g.tasks[o])
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].OutlineLevel != summaries[j].OutlineLevel {
			return summaries[i].OutlineLevel > summaries[j].OutlineLevel
		}
		return outlineLess(summaries[i].OutlineNumber, summaries[j].OutlineNumber)
	})

	for _, s := range summaries {
		var minStart, maxFinish *time.Time
		for _, d := range g.Descendants(s.OutlineNumber) {
			if g.IsSummary(d.OutlineNumber) || d.Start == nil || d.Finish == nil {
				continue
			}
			if minStart == nil || d.Start.Before(*minStart) {
				minStart = d.Start
			}
			if maxFinish == nil || d.Finish.After(*maxFinish) {
				maxFinish = d.Finish
			}
		}
		if minStart == nil {
			continue
		}
		start := *minStart
		finish := *maxFinish
		s.Start = &start
		s.Finish = &finish
		s.DurationHours = cal.DaysToHours(cal.WorkingDaysBetween(start, finish))
	}
}
