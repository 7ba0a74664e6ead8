package contract

// CycleFix records one predecessor link removed to break a dependency cycle.
type CycleFix struct {
	TaskOutline        string
	RemovedPredecessor string
	// CyclePath is the outline sequence of the cycle, first node repeated
	// at the end, so hosts can render "1 -> 3 -> 1" without re-deriving it.
	CyclePath []string
}

// ReferenceFix records dangling predecessor references dropped from one task.
type ReferenceFix struct {
	TaskOutline       string
	RemovedReferences []string
}

// LagFix records one predecessor lag clamped to the allowed maximum.
type LagFix struct {
	TaskOutline string
	Predecessor string
	OldLagDays  float64
	NewLagDays  float64
}

// InvariantFix records one correction made by invariant enforcement,
// e.g. a summary task stripped of predecessors or a milestone zeroed.
type InvariantFix struct {
	TaskOutline string
	Field       string
	Detail      string
}

// ScheduleResult reports the outcome of date propagation.
type ScheduleResult struct {
	Resolved int
	// Unresolved lists tasks left without dates when the sweep bound was
	// exhausted. Non-empty means a cycle escaped detection.
	Unresolved []string
}

// Failed reports whether propagation left any task without dates.
func (r *ScheduleResult) Failed() bool {
	return len(r.Unresolved) > 0
}

// EditResult reports the outcome of one structural edit.
type EditResult struct {
	// OutlineMapping maps pre-edit outline numbers to post-renumber ones
	// for every task whose number changed.
	OutlineMapping map[string]string
	Created        []string
	Deleted        []string
	CycleFixes     []CycleFix
}

// PhaseSummary describes one phase synthesized by reorganization.
type PhaseSummary struct {
	Outline   string
	Name      string
	TaskCount int
}

// ReorganizeResult reports the outcome of a bulk reorganization.
type ReorganizeResult struct {
	Phases         []PhaseSummary
	OutlineMapping map[string]string
}

// FixReport aggregates every correction made by the one-shot fix pipeline,
// in the order the repairs run.
type FixReport struct {
	ReferenceFixes []ReferenceFix
	CycleFixes     []CycleFix
	LagFixes       []LagFix
	InvariantFixes []InvariantFix
	Schedule       *ScheduleResult
}

// TotalChanges counts every individual correction in the report.
func (r *FixReport) TotalChanges() int {
	return len(r.ReferenceFixes) + len(r.CycleFixes) + len(r.LagFixes) + len(r.InvariantFixes)
}
