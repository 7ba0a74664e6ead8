package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/importer"
	"github.com/alexanderramin/falsework/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
}

func NewImportService(uow db.UnitOfWork) ImportService {
	return &importService{uow: uow}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	project, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	links := 0
	for _, t := range project.Tasks {
		links += len(t.Predecessors)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		if err := txProjects.Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := txTasks.ReplaceAll(ctx, project.ID, project.Tasks); err != nil {
			return fmt.Errorf("creating tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:   project,
		TaskCount: len(project.Tasks),
		LinkCount: links,
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
