package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found. Malformed values are always
// errors, never silently defaulted. Predecessor references to outlines absent
// from the file are allowed: real-world schedules arrive with broken links,
// and the repair pipeline reports and removes them after import.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	if len(schema.Tasks) == 0 {
		errs = append(errs, fmt.Errorf("tasks: at least one task is required"))
	}

	seen := make(map[string]bool)
	for i, t := range schema.Tasks {
		errs = append(errs, validateTask(i, &t, seen)...)
	}

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	probe := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
	if err := probe.ValidateShortID(); err != nil {
		errs = append(errs, fmt.Errorf("project.short_id: %w", err))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}

	return errs
}

func validateTask(i int, t *TaskImport, seen map[string]bool) []error {
	var errs []error
	prefix := fmt.Sprintf("tasks[%d]", i)

	if t.Outline == "" {
		errs = append(errs, fmt.Errorf("%s.outline is required", prefix))
	} else if err := validateOutline(t.Outline); err != nil {
		errs = append(errs, fmt.Errorf("%s.outline: %w", prefix, err))
	} else if seen[t.Outline] {
		errs = append(errs, fmt.Errorf("%s.outline: duplicate outline %q", prefix, t.Outline))
	} else {
		seen[t.Outline] = true
	}

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if t.DurationHours < 0 {
		errs = append(errs, fmt.Errorf("%s.duration_hours must not be negative", prefix))
	}
	if t.Milestone && t.DurationHours != 0 {
		errs = append(errs, fmt.Errorf("%s: milestone must have zero duration, got %v hours", prefix, t.DurationHours))
	}
	if t.PercentComplete < 0 || t.PercentComplete > 100 {
		errs = append(errs, fmt.Errorf("%s.percent_complete must be between 0 and 100", prefix))
	}

	if t.ConstraintType != "" {
		if !domain.ValidConstraintTypes[t.ConstraintType] {
			errs = append(errs, fmt.Errorf("%s.constraint_type: invalid value %q", prefix, t.ConstraintType))
		} else if domain.ConstraintType(t.ConstraintType).RequiresDate() {
			if t.ConstraintDate == nil || *t.ConstraintDate == "" {
				errs = append(errs, fmt.Errorf("%s.constraint_date is required for constraint_type %q", prefix, t.ConstraintType))
			}
		}
	}
	if t.ConstraintDate != nil && *t.ConstraintDate != "" {
		if _, err := time.Parse("2006-01-02", *t.ConstraintDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.constraint_date: invalid date format %q (expected YYYY-MM-DD)", prefix, *t.ConstraintDate))
		}
	}

	for j, p := range t.Predecessors {
		pprefix := fmt.Sprintf("%s.predecessors[%d]", prefix, j)

		if p.Outline == "" {
			errs = append(errs, fmt.Errorf("%s.outline is required", pprefix))
		} else if err := validateOutline(p.Outline); err != nil {
			errs = append(errs, fmt.Errorf("%s.outline: %w", pprefix, err))
		} else if p.Outline == t.Outline {
			errs = append(errs, fmt.Errorf("%s: task %q references itself", pprefix, t.Outline))
		}

		if p.Type != "" && !domain.LinkType(p.Type).IsValid() {
			errs = append(errs, fmt.Errorf("%s.type: invalid link type %q (expected FS, SS, FF, or SF)", pprefix, p.Type))
		}
		if p.LagFormat != "" && !domain.LagFormat(p.LagFormat).IsValid() {
			errs = append(errs, fmt.Errorf("%s.lag_format: invalid value %q (expected days or hours)", pprefix, p.LagFormat))
		}
	}

	return errs
}

// validateOutline requires a dot-separated sequence of positive integers.
func validateOutline(outline string) error {
	for _, seg := range strings.Split(outline, ".") {
		n, err := strconv.Atoi(seg)
		if err != nil || n <= 0 {
			return fmt.Errorf("segment %q of %q is not a positive integer", seg, outline)
		}
	}
	return nil
}
