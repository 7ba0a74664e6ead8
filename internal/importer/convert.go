package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated ImportSchema into a domain project ready
// for persistence. Call ValidateImportSchema first; Convert assumes the
// schema is valid. Outline levels are recomputed from the outline numbers,
// never trusted from the file.
func Convert(schema *ImportSchema) (*domain.Project, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse("2006-01-02", schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	project := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   strings.ToUpper(schema.Project.ShortID),
		Name:      schema.Project.Name,
		StartDate: startDate,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, t := range schema.Tasks {
		task := &domain.Task{
			UID:             uuid.New().String(),
			OutlineNumber:   t.Outline,
			OutlineLevel:    strings.Count(t.Outline, ".") + 1,
			Name:            t.Name,
			DurationHours:   t.DurationHours,
			IsMilestone:     t.Milestone,
			PercentComplete: t.PercentComplete,
			ConstraintType:  constraintOrDefault(t.ConstraintType),
			ConstraintDate:  parseOptionalDate(t.ConstraintDate),
			Notes:           t.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		for _, p := range t.Predecessors {
			task.Predecessors = append(task.Predecessors, domain.PredecessorLink{
				RefOutline: p.Outline,
				Type:       linkTypeOrDefault(p.Type),
				Lag:        p.Lag,
				LagFormat:  lagFormatOrDefault(p.LagFormat),
			})
		}
		project.Tasks = append(project.Tasks, task)
	}

	return project, nil
}

func constraintOrDefault(s string) domain.ConstraintType {
	if s == "" {
		return domain.ConstraintASAP
	}
	return domain.ConstraintType(s)
}

func linkTypeOrDefault(s string) domain.LinkType {
	if s == "" {
		return domain.LinkFinishToStart
	}
	return domain.LinkType(s)
}

func lagFormatOrDefault(s string) domain.LagFormat {
	if s == "" {
		return domain.LagDays
	}
	return domain.LagFormat(s)
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
