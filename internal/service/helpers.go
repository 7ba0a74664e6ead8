package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/alexanderramin/falsework/internal/repository"
)

// resolveProject looks a project up by short ID first, falling back to UUID,
// without loading its tasks.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	p, err := projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return projects.GetByID(ctx, ref)
}

// loadProject resolves a project and attaches its tasks in outline order.
func loadProject(ctx context.Context, projects repository.ProjectRepo, tasks repository.TaskRepo, ref string) (*domain.Project, error) {
	p, err := resolveProject(ctx, projects, ref)
	if err != nil {
		return nil, err
	}
	p.Tasks, err = tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("loading tasks for project %s: %w", p.DisplayID(), err)
	}
	return p, nil
}

// saveTasks persists the project's full task list inside a transaction.
func saveTasks(ctx context.Context, uow db.UnitOfWork, p *domain.Project) error {
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		if err := txTasks.ReplaceAll(ctx, p.ID, p.Tasks); err != nil {
			return fmt.Errorf("persisting tasks for project %s: %w", p.DisplayID(), err)
		}
		return nil
	})
}
