package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is a construction-project schedule: an anchor start date plus an
// ordered task list. Task order reflects document order, not dependency order.
type Project struct {
	ID         string
	ShortID    string
	Name       string
	StartDate  time.Time
	Status     ProjectStatus
	Tasks      []*Task
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. SITE01, TOWER0234).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. SITE01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// TaskByOutline returns the task with the given outline number, or nil.
func (p *Project) TaskByOutline(outline string) *Task {
	for _, t := range p.Tasks {
		if t.OutlineNumber == outline {
			return t
		}
	}
	return nil
}
