package engine

import (
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/google/uuid"
)

// 2024-01-01 is a Monday.
var jan1 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

// task builds a leaf task with finish-to-start zero-lag links to preds.
func task(outline, name string, hours float64, preds ...string) *domain.Task {
	t := &domain.Task{
		UID:            uuid.New().String(),
		OutlineNumber:  outline,
		OutlineLevel:   outlineLevel(outline),
		Name:           name,
		DurationHours:  hours,
		ConstraintType: domain.ConstraintASAP,
	}
	for _, p := range preds {
		t.Predecessors = append(t.Predecessors, domain.PredecessorLink{
			RefOutline: p,
			Type:       domain.LinkFinishToStart,
			LagFormat:  domain.LagDays,
		})
	}
	return t
}

func project(tasks ...*domain.Task) *domain.Project {
	return &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   "SITE01",
		Name:      "Test Site",
		StartDate: jan1,
		Status:    domain.ProjectActive,
		Tasks:     tasks,
	}
}

func outlines(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.OutlineNumber
	}
	return out
}
