package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/falsework/internal/importer"
	"github.com/alexanderramin/falsework/internal/repository"
	"github.com/alexanderramin/falsework/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importSchemaFixture() *importer.ImportSchema {
	return &importer.ImportSchema{
		Project: importer.ProjectImport{
			ShortID:   "DEP01",
			Name:      "Rail Depot",
			StartDate: "2024-03-04",
		},
		Tasks: []importer.TaskImport{
			{Outline: "1", Name: "Groundworks", DurationHours: 40},
			{Outline: "1.1", Name: "Strip topsoil", DurationHours: 16},
			{Outline: "1.2", Name: "Cut and fill", DurationHours: 24,
				Predecessors: []importer.PredecessorImport{{Outline: "1.1"}}},
			{Outline: "2", Name: "Track bed", DurationHours: 32,
				Predecessors: []importer.PredecessorImport{{Outline: "1.2", Lag: 2}}},
		},
	}
}

func TestImportService_ImportFromSchema(t *testing.T) {
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	svc := NewImportService(testutil.NewTestUoW(database))
	ctx := context.Background()

	result, err := svc.ImportProjectFromSchema(ctx, importSchemaFixture())
	require.NoError(t, err)
	assert.Equal(t, 4, result.TaskCount)
	assert.Equal(t, 2, result.LinkCount)

	stored, err := projectRepo.GetByShortID(ctx, "DEP01")
	require.NoError(t, err)
	assert.Equal(t, "Rail Depot", stored.Name)

	tasks, err := taskRepo.ListByProject(ctx, stored.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, "1", tasks[0].OutlineNumber)
	assert.Equal(t, "2", tasks[3].OutlineNumber)
	require.Len(t, tasks[3].Predecessors, 1)
	assert.Equal(t, float64(2), tasks[3].Predecessors[0].Lag)
}

func TestImportService_ImportFromFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	svc := NewImportService(testutil.NewTestUoW(database))
	ctx := context.Background()

	data, err := json.Marshal(importSchemaFixture())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "depot.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	result, err := svc.ImportProject(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TaskCount)

	_, err = projectRepo.GetByShortID(ctx, "DEP01")
	require.NoError(t, err)
}

func TestImportService_MissingFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewImportService(testutil.NewTestUoW(database))

	_, err := svc.ImportProject(context.Background(), "/nonexistent/depot.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading import file")
}

func TestImportService_ValidationErrorsAggregated(t *testing.T) {
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	svc := NewImportService(testutil.NewTestUoW(database))
	ctx := context.Background()

	schema := importSchemaFixture()
	schema.Project.ShortID = "bad"
	schema.Tasks[1].Name = ""

	_, err := svc.ImportProjectFromSchema(ctx, schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")

	// Nothing persisted when validation rejects the schema.
	_, err = projectRepo.GetByShortID(ctx, "BAD")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImportService_RollbackOnMidImportFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	injected := errors.New("disk full")
	// Exec 1 inserts the project, exec 2 clears the task rows; exec 3 is
	// the first task insert.
	svc := NewImportService(&testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected})
	ctx := context.Background()

	_, err := svc.ImportProjectFromSchema(ctx, importSchemaFixture())
	require.ErrorIs(t, err, injected)

	// The project row written earlier in the same transaction rolled back.
	_, err = projectRepo.GetByShortID(ctx, "DEP01")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
