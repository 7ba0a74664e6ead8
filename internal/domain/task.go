package domain

import (
	"strings"
	"time"
)

// PredecessorLink ties a task to one predecessor by outline number.
// Lag is a signed offset in LagFormat units; negative lag is a lead.
type PredecessorLink struct {
	RefOutline string
	Type       LinkType
	Lag        float64
	LagFormat  LagFormat
}

// Task is one row of the project schedule. Summary-ness is never stored:
// a task is a summary iff another task's outline number is a strict dotted
// descendant of its own, and the engine recomputes that after every edit.
type Task struct {
	UID           string
	OutlineNumber string
	OutlineLevel  int
	Name          string

	// DurationHours is elapsed working time. Zero for milestones; derived
	// from the descendant date span for summary tasks.
	DurationHours float64

	// Start and Finish are computed outputs, nil until dates propagate.
	Start  *time.Time
	Finish *time.Time

	IsMilestone     bool
	PercentComplete int

	ConstraintType ConstraintType
	ConstraintDate *time.Time

	Predecessors []PredecessorLink

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParentOutline returns the outline number with the last segment removed,
// or "" for a top-level task.
func (t *Task) ParentOutline() string {
	idx := strings.LastIndex(t.OutlineNumber, ".")
	if idx < 0 {
		return ""
	}
	return t.OutlineNumber[:idx]
}

// IsDescendantOf reports whether this task sits strictly under the given
// outline number in the hierarchy.
func (t *Task) IsDescendantOf(outline string) bool {
	return strings.HasPrefix(t.OutlineNumber, outline+".")
}

// IsChildOf reports whether this task is an immediate child of outline.
func (t *Task) IsChildOf(outline string) bool {
	return t.ParentOutline() == outline
}

// HasPredecessor reports whether the task already links to the given outline.
func (t *Task) HasPredecessor(outline string) bool {
	for _, p := range t.Predecessors {
		if p.RefOutline == outline {
			return true
		}
	}
	return false
}

// RemovePredecessor drops every link to the given outline number and
// reports whether anything was removed.
func (t *Task) RemovePredecessor(outline string) bool {
	kept := t.Predecessors[:0]
	removed := false
	for _, p := range t.Predecessors {
		if p.RefOutline == outline {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	t.Predecessors = kept
	return removed
}
