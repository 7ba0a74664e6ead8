package service

import (
	"context"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/alexanderramin/falsework/internal/engine"
	"github.com/alexanderramin/falsework/internal/repository"
)

type editService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	cal      *calendar.Calendar
}

func NewEditService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	cal *calendar.Calendar,
) EditService {
	return &editService{projects: projects, tasks: tasks, uow: uow, cal: cal}
}

func (s *editService) Move(ctx context.Context, ref string, req contract.MoveRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.Move(p, req)
	})
}

func (s *editService) Insert(ctx context.Context, ref string, req contract.InsertRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.Insert(p, req)
	})
}

func (s *editService) Delete(ctx context.Context, ref string, req contract.DeleteRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.Delete(p, req)
	})
}

func (s *editService) Merge(ctx context.Context, ref string, req contract.MergeRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.Merge(p, req)
	})
}

func (s *editService) Split(ctx context.Context, ref string, req contract.SplitRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.Split(p, req)
	})
}

func (s *editService) SetTask(ctx context.Context, ref string, req contract.SetTaskRequest) (*contract.EditResult, error) {
	return s.applyEdit(ctx, ref, func(p *domain.Project) (*contract.EditResult, error) {
		return engine.SetTask(p, req)
	})
}

func (s *editService) Reorganize(ctx context.Context, ref string, req contract.ReorganizeRequest) (*contract.ReorganizeResult, error) {
	p, err := loadProject(ctx, s.projects, s.tasks, ref)
	if err != nil {
		return nil, err
	}

	result, err := engine.Reorganize(p, req)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeAndSave(ctx, p); err != nil {
		return nil, err
	}
	return result, nil
}

// applyEdit loads the project, runs one structural edit, recomputes dates
// over the modified graph, and persists everything in one transaction. The
// in-memory project is discarded on failure, so a failed edit never leaks
// partial state.
func (s *editService) applyEdit(ctx context.Context, ref string, edit func(*domain.Project) (*contract.EditResult, error)) (*contract.EditResult, error) {
	p, err := loadProject(ctx, s.projects, s.tasks, ref)
	if err != nil {
		return nil, err
	}

	result, err := edit(p)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeAndSave(ctx, p); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *editService) recomputeAndSave(ctx context.Context, p *domain.Project) error {
	if _, err := engine.RecomputeDates(p, s.cal); err != nil {
		return err
	}
	return saveTasks(ctx, s.uow, p)
}
