package domain

// LinkType is the MS-Project dependency semantics between a predecessor and
// its successor. Only finish-to-start drives date propagation; the other
// three are carried through import/export untouched.
type LinkType string

const (
	LinkFinishToStart  LinkType = "FS"
	LinkStartToStart   LinkType = "SS"
	LinkFinishToFinish LinkType = "FF"
	LinkStartToFinish  LinkType = "SF"
)

// IsValid checks if the link type is one of the four MS-Project kinds.
func (l LinkType) IsValid() bool {
	switch l {
	case LinkFinishToStart, LinkStartToStart, LinkFinishToFinish, LinkStartToFinish:
		return true
	}
	return false
}

// LagFormat is the unit a predecessor lag is expressed in.
type LagFormat string

const (
	LagDays  LagFormat = "days"
	LagHours LagFormat = "hours"
)

func (f LagFormat) IsValid() bool {
	return f == LagDays || f == LagHours
}

type ConstraintType string

const (
	ConstraintASAP            ConstraintType = "asap"
	ConstraintALAP            ConstraintType = "alap"
	ConstraintMustStartOn     ConstraintType = "must_start_on"
	ConstraintMustFinishOn    ConstraintType = "must_finish_on"
	ConstraintStartNoEarlier  ConstraintType = "start_no_earlier"
	ConstraintStartNoLater    ConstraintType = "start_no_later"
	ConstraintFinishNoEarlier ConstraintType = "finish_no_earlier"
	ConstraintFinishNoLater   ConstraintType = "finish_no_later"
)

// ValidConstraintTypes is the canonical set of accepted constraint strings.
var ValidConstraintTypes = map[string]bool{
	"asap": true, "alap": true,
	"must_start_on": true, "must_finish_on": true,
	"start_no_earlier": true, "start_no_later": true,
	"finish_no_earlier": true, "finish_no_later": true,
}

// RequiresDate reports whether the constraint type needs a constraint date.
// ASAP and ALAP are scheduling directions, not pinned dates.
func (c ConstraintType) RequiresDate() bool {
	switch c {
	case ConstraintASAP, ConstraintALAP, "":
		return false
	}
	return true
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// DayException overrides the work-week rule for a single calendar date.
type DayException string

const (
	ExceptionHoliday    DayException = "holiday"
	ExceptionWorkingDay DayException = "working_day"
)
