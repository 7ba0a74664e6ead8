package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithDuration(hours float64) TaskOption {
	return func(t *domain.Task) {
		t.DurationHours = hours
	}
}

func WithMilestone() TaskOption {
	return func(t *domain.Task) {
		t.IsMilestone = true
		t.DurationHours = 0
	}
}

func WithPredecessor(refOutline string, lagDays float64) TaskOption {
	return func(t *domain.Task) {
		t.Predecessors = append(t.Predecessors, domain.PredecessorLink{
			RefOutline: refOutline,
			Type:       domain.LinkFinishToStart,
			Lag:        lagDays,
			LagFormat:  domain.LagDays,
		})
	}
}

func WithLink(refOutline string, linkType domain.LinkType, lag float64, format domain.LagFormat) TaskOption {
	return func(t *domain.Task) {
		t.Predecessors = append(t.Predecessors, domain.PredecessorLink{
			RefOutline: refOutline,
			Type:       linkType,
			Lag:        lag,
			LagFormat:  format,
		})
	}
}

func WithConstraint(c domain.ConstraintType, date *time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ConstraintType = c
		t.ConstraintDate = date
	}
}

func WithTaskNotes(n string) TaskOption {
	return func(t *domain.Task) {
		t.Notes = n
	}
}

func WithPercentComplete(pct int) TaskOption {
	return func(t *domain.Task) {
		t.PercentComplete = pct
	}
}

func NewTestTask(outline, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		UID:            uuid.New().String(),
		OutlineNumber:  outline,
		OutlineLevel:   strings.Count(outline, ".") + 1,
		Name:           name,
		DurationHours:  8,
		ConstraintType: domain.ConstraintASAP,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestSchedule builds a project with the given tasks attached, a common
// starting point for service and repository tests.
func NewTestSchedule(name string, tasks ...*domain.Task) *domain.Project {
	p := NewTestProject(name)
	p.Tasks = tasks
	return p
}
