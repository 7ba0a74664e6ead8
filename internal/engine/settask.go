package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
)

const constraintDateLayout = "2006-01-02"

// SetTask updates fields on one existing task. Field changes that would
// break a modeled invariant are rejected with no mutation; adding a
// predecessor that closes a cycle is allowed and the cycle is broken like
// any other edit. Summary tasks accept only name and notes changes, since
// everything else about them is derived.
func SetTask(p *domain.Project, req contract.SetTaskRequest) (*contract.EditResult, error) {
	g := NewGraph(p)
	task, err := g.Task(req.Outline)
	if err != nil {
		return nil, err
	}

	if g.IsSummary(req.Outline) && touchesDerivedFields(req) {
		return nil, &InvariantViolationError{
			Outline: req.Outline,
			Reason:  "summary tasks derive duration, dates, and links from their children",
		}
	}

	if err := validateSetTask(g, task, req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		task.Name = strings.TrimSpace(*req.Name)
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}
	if req.Milestone != nil {
		task.IsMilestone = *req.Milestone
		if task.IsMilestone {
			task.DurationHours = 0
		}
	}
	if req.DurationHours != nil {
		task.DurationHours = *req.DurationHours
	}
	if req.PercentComplete != nil {
		task.PercentComplete = *req.PercentComplete
	}
	if req.ConstraintType != nil {
		task.ConstraintType = domain.ConstraintType(*req.ConstraintType)
		if !task.ConstraintType.RequiresDate() {
			task.ConstraintDate = nil
		}
	}
	if req.ConstraintDate != nil {
		date, _ := time.Parse(constraintDateLayout, *req.ConstraintDate)
		task.ConstraintDate = &date
	}
	if req.RemovePredecessor != nil {
		task.RemovePredecessor(*req.RemovePredecessor)
	}
	if req.AddPredecessor != nil {
		spec := req.AddPredecessor
		link := domain.PredecessorLink{
			RefOutline: spec.RefOutline,
			Type:       domain.LinkFinishToStart,
			Lag:        spec.Lag,
			LagFormat:  domain.LagDays,
		}
		if spec.Type != "" {
			link.Type = domain.LinkType(spec.Type)
		}
		if spec.LagFormat != "" {
			link.LagFormat = domain.LagFormat(spec.LagFormat)
		}
		if !task.HasPredecessor(spec.RefOutline) {
			task.Predecessors = append(task.Predecessors, link)
		}
	}
	task.UpdatedAt = time.Now().UTC()

	fixes := DetectAndBreakCycles(p)
	return &contract.EditResult{
		OutlineMapping: map[string]string{},
		CycleFixes:     fixes,
	}, nil
}

func touchesDerivedFields(req contract.SetTaskRequest) bool {
	return req.DurationHours != nil || req.Milestone != nil ||
		req.PercentComplete != nil || req.ConstraintType != nil ||
		req.ConstraintDate != nil || req.AddPredecessor != nil ||
		req.RemovePredecessor != nil
}

func validateSetTask(g *TaskGraph, task *domain.Task, req contract.SetTaskRequest) error {
	outline := task.OutlineNumber

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return &InvariantViolationError{Outline: outline, Reason: "task name cannot be empty"}
	}
	if req.DurationHours != nil {
		if *req.DurationHours < 0 {
			return &InvariantViolationError{Outline: outline, Reason: "duration cannot be negative"}
		}
		milestone := task.IsMilestone
		if req.Milestone != nil {
			milestone = *req.Milestone
		}
		if milestone && *req.DurationHours != 0 {
			return &InvariantViolationError{Outline: outline, Reason: "milestones have zero duration"}
		}
	}
	if req.PercentComplete != nil && (*req.PercentComplete < 0 || *req.PercentComplete > 100) {
		return &InvariantViolationError{Outline: outline, Reason: "percent complete must be 0-100"}
	}

	if req.ConstraintType != nil {
		if !domain.ValidConstraintTypes[*req.ConstraintType] {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("unknown constraint type %q", *req.ConstraintType)}
		}
		ct := domain.ConstraintType(*req.ConstraintType)
		if ct.RequiresDate() && req.ConstraintDate == nil && task.ConstraintDate == nil {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("constraint %s requires a date", ct)}
		}
	}
	if req.ConstraintDate != nil {
		if _, err := time.Parse(constraintDateLayout, *req.ConstraintDate); err != nil {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("constraint date %q: expected YYYY-MM-DD", *req.ConstraintDate)}
		}
	}

	if req.RemovePredecessor != nil && !task.HasPredecessor(*req.RemovePredecessor) {
		return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("no predecessor link to %s", *req.RemovePredecessor)}
	}

	if spec := req.AddPredecessor; spec != nil {
		if spec.RefOutline == outline {
			return &InvariantViolationError{Outline: outline, Reason: "task cannot depend on itself"}
		}
		if _, err := g.Task(spec.RefOutline); err != nil {
			return err
		}
		if g.IsSummary(spec.RefOutline) {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("cannot link to summary task %s", spec.RefOutline)}
		}
		if spec.Type != "" && !domain.LinkType(spec.Type).IsValid() {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("unknown link type %q", spec.Type)}
		}
		if spec.LagFormat != "" && !domain.LagFormat(spec.LagFormat).IsValid() {
			return &InvariantViolationError{Outline: outline, Reason: fmt.Sprintf("unknown lag format %q", spec.LagFormat)}
		}
	}

	return nil
}
