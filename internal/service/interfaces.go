package service

import (
	"context"

	"github.com/alexanderramin/falsework/internal/contract"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/alexanderramin/falsework/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	// Get resolves a project by short ID or UUID, tasks attached in
	// outline order.
	Get(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Archive(ctx context.Context, ref string) error
	Unarchive(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string, force bool) error
}

// ScheduleService owns date propagation and the one-shot repair pipeline.
type ScheduleService interface {
	// Recompute propagates start/finish dates through the dependency
	// graph and persists the result.
	Recompute(ctx context.Context, ref string) (*contract.ScheduleResult, error)
	// Fix runs every structural repair in order (broken references,
	// cycles, unreasonable lags, invariants) and recomputes dates.
	Fix(ctx context.Context, ref string) (*contract.FixReport, error)
}

// EditService applies structural edits. Every edit renumbers outlines,
// repairs any cycle the edit exposed, recomputes dates, and persists the
// whole task list atomically.
type EditService interface {
	Move(ctx context.Context, ref string, req contract.MoveRequest) (*contract.EditResult, error)
	Insert(ctx context.Context, ref string, req contract.InsertRequest) (*contract.EditResult, error)
	Delete(ctx context.Context, ref string, req contract.DeleteRequest) (*contract.EditResult, error)
	Merge(ctx context.Context, ref string, req contract.MergeRequest) (*contract.EditResult, error)
	Split(ctx context.Context, ref string, req contract.SplitRequest) (*contract.EditResult, error)
	// SetTask updates fields on one task in place: name, duration,
	// milestone flag, percent complete, constraint, notes, and single
	// predecessor add/remove.
	SetTask(ctx context.Context, ref string, req contract.SetTaskRequest) (*contract.EditResult, error)
	Reorganize(ctx context.Context, ref string, req contract.ReorganizeRequest) (*contract.ReorganizeResult, error)
}

// ImportResult holds the outcome of a schedule import.
type ImportResult struct {
	Project   *domain.Project
	TaskCount int
	LinkCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
