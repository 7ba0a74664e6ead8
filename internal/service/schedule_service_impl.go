package service

import (
	"context"
	"time"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/engine"
	"github.com/alexanderramin/falsework/internal/repository"
)

// maxReasonableLagDays bounds predecessor lags; anything larger is treated
// as a data-entry error and clamped by the fix pipeline.
const maxReasonableLagDays = 30

type scheduleService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	cal      *calendar.Calendar
	observer UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	cal *calendar.Calendar,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		cal:      cal,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Recompute(ctx context.Context, ref string) (*contract.ScheduleResult, error) {
	started := time.Now()
	result, err := s.recompute(ctx, ref)
	s.observe(ctx, "schedule.recompute", started, err, map[string]any{"project": ref})
	return result, err
}

func (s *scheduleService) recompute(ctx context.Context, ref string) (*contract.ScheduleResult, error) {
	p, err := loadProject(ctx, s.projects, s.tasks, ref)
	if err != nil {
		return nil, err
	}

	result, err := engine.RecomputeDates(p, s.cal)
	if err != nil {
		return nil, err
	}
	if err := saveTasks(ctx, s.uow, p); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *scheduleService) Fix(ctx context.Context, ref string) (*contract.FixReport, error) {
	started := time.Now()
	report, err := s.fix(ctx, ref)
	fields := map[string]any{"project": ref}
	if report != nil {
		fields["changes"] = report.TotalChanges()
	}
	s.observe(ctx, "schedule.fix", started, err, fields)
	return report, err
}

// fix runs the repairs in dependency order: dangling references first so
// the cycle search sees only real edges, cycles before lags so clamping
// never touches a link the cycle breaker is about to remove, and date
// propagation last, over the cleaned graph.
func (s *scheduleService) fix(ctx context.Context, ref string) (*contract.FixReport, error) {
	p, err := loadProject(ctx, s.projects, s.tasks, ref)
	if err != nil {
		return nil, err
	}

	report := &contract.FixReport{}
	report.ReferenceFixes = engine.RepairBrokenReferences(p)
	report.CycleFixes = engine.DetectAndBreakCycles(p)
	report.LagFixes = engine.RepairUnreasonableLags(p, s.cal, maxReasonableLagDays)
	report.InvariantFixes = engine.EnforceInvariants(p)

	report.Schedule, err = engine.RecomputeDates(p, s.cal)
	if err != nil {
		return nil, err
	}

	if err := saveTasks(ctx, s.uow, p); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *scheduleService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}
