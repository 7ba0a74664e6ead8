package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/alexanderramin/falsework/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
}

func NewProjectService(projects repository.ProjectRepo, tasks repository.TaskRepo) ProjectService {
	return &projectService{projects: projects, tasks: tasks}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) Get(ctx context.Context, ref string) (*domain.Project, error) {
	return loadProject(ctx, s.projects, s.tasks, ref)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Archive(ctx context.Context, ref string) error {
	p, err := resolveProject(ctx, s.projects, ref)
	if err != nil {
		return err
	}
	return s.projects.Archive(ctx, p.ID)
}

func (s *projectService) Unarchive(ctx context.Context, ref string) error {
	p, err := resolveProject(ctx, s.projects, ref)
	if err != nil {
		return err
	}
	return s.projects.Unarchive(ctx, p.ID)
}

func (s *projectService) Delete(ctx context.Context, ref string, force bool) error {
	p, err := resolveProject(ctx, s.projects, ref)
	if err != nil {
		return err
	}
	if !force && p.Status != domain.ProjectArchived {
		return fmt.Errorf("project must be archived before deletion (use --force to override)")
	}
	return s.projects.Delete(ctx, p.ID)
}
