package contract

// Position says where a moved or inserted task lands relative to its
// reference task.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionUnder  Position = "under"
)

func (p Position) IsValid() bool {
	return p == PositionBefore || p == PositionAfter || p == PositionUnder
}

// MoveRequest relocates a task (and its whole subtree) relative to a target.
type MoveRequest struct {
	Outline  string
	Target   string
	Position Position
}

// InsertRequest creates a new leaf task adjacent to a reference task; an
// empty Reference appends a new top-level task at the end. Unless NoLink is
// set, inserting after a task makes that task the sole predecessor of the
// new one.
type InsertRequest struct {
	Name          string
	Reference     string
	Position      Position
	DurationHours float64
	NoLink        bool
}

// DeleteRequest removes a task; for a summary the whole subtree goes.
// Relink rebinds successors of the deleted task to its own predecessors
// instead of dropping the dangling reference.
type DeleteRequest struct {
	Outline string
	Relink  bool
}

// MergeRequest folds Secondary into Primary: durations sum, names join,
// predecessor sets union, and outside references to Secondary move to Primary.
type MergeRequest struct {
	Primary   string
	Secondary string
}

// SplitRequest turns a leaf task into a summary with Parts equal-duration
// children chained finish-to-start.
type SplitRequest struct {
	Outline string
	Parts   int
}

// LinkSpec names one dependency link in wire form; empty Type and LagFormat
// take the FS / days defaults.
type LinkSpec struct {
	RefOutline string
	Type       string
	Lag        float64
	LagFormat  string
}

// SetTaskRequest updates fields on one existing leaf task. Nil pointers
// leave the field unchanged.
type SetTaskRequest struct {
	Outline           string
	Name              *string
	DurationHours     *float64
	Milestone         *bool
	PercentComplete   *int
	ConstraintType    *string
	ConstraintDate    *string // YYYY-MM-DD
	Notes             *string
	AddPredecessor    *LinkSpec
	RemovePredecessor *string
}

// ReorganizeRequest controls bulk reorganization of a flat task list.
// StaggerDays, when positive, offsets the start of each parallel building
// phase by that many working days to produce a rolling schedule.
type ReorganizeRequest struct {
	StaggerDays float64
}
