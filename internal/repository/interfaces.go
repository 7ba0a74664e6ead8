package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/falsework/internal/domain"
)

// ErrNotFound is the sentinel wrapped by every repository lookup miss.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TaskRepo persists a project's task rows and their predecessor links.
// Scheduling and structural edits rewrite outline numbers across the whole
// list, so the write path replaces a project's tasks wholesale instead of
// tracking row-level diffs.
type TaskRepo interface {
	ReplaceAll(ctx context.Context, projectID string, tasks []*domain.Task) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	GetByOutline(ctx context.Context, projectID, outline string) (*domain.Task, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}
