package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/alexanderramin/falsework/internal/importer"
	"github.com/alexanderramin/falsework/internal/repository"
	"github.com/alexanderramin/falsework/internal/service"
	"github.com/alexanderramin/falsework/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)

	projRepo := repository.NewSQLiteProjectRepo(db)
	taskRepo := repository.NewSQLiteTaskRepo(db)
	uow := testutil.NewTestUoW(db)
	cal := calendar.Default()

	return &App{
		Projects: service.NewProjectService(projRepo, taskRepo),
		Schedule: service.NewScheduleService(projRepo, taskRepo, uow, cal),
		Edits:    service.NewEditService(projRepo, taskRepo, uow, cal),
		Import:   service.NewImportService(uow),
	}
}

// seedSchedule imports a small linked schedule for edit and schedule tests.
func seedSchedule(t *testing.T, app *App) *domain.Project {
	t.Helper()
	result, err := app.Import.ImportProjectFromSchema(context.Background(), &importer.ImportSchema{
		Project: importer.ProjectImport{ShortID: "CLI01", Name: "CLI Test Build", StartDate: "2024-01-01"},
		Tasks: []importer.TaskImport{
			{Outline: "1", Name: "Excavation", DurationHours: 16},
			{Outline: "2", Name: "Foundations", DurationHours: 24,
				Predecessors: []importer.PredecessorImport{{Outline: "1"}}},
			{Outline: "3", Name: "Framing", DurationHours: 40,
				Predecessors: []importer.PredecessorImport{{Outline: "2"}}},
		},
	})
	require.NoError(t, err)
	return result.Project
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "falsework")
}

func TestProjectAddCmd(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "project", "add",
		"--id", "dep01", "--name", "Rail Depot", "--start", "2024-03-04")
	require.NoError(t, err)
	assert.Contains(t, output, "Created project Rail Depot [DEP01]")

	p, err := app.Projects.Get(context.Background(), "DEP01")
	require.NoError(t, err)
	assert.Equal(t, "Rail Depot", p.Name)
}

func TestProjectAddCmd_InvalidDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add",
		"--id", "DEP01", "--name", "Rail Depot", "--start", "04/03/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start date")
}

func TestProjectListCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "CLI01")
	assert.Contains(t, output, "CLI Test Build")
}

func TestProjectListCmd_Empty(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No projects found")
}

func TestProjectInspectCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "project", "inspect", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "CLI Test Build")
	assert.Contains(t, output, "Excavation")
}

func TestProjectRemoveCmd_RequiresArchiveOrForce(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	_, err := executeCmd(t, app, "project", "remove", "CLI01")
	require.Error(t, err)

	_, err = executeCmd(t, app, "project", "remove", "CLI01", "--force")
	require.NoError(t, err)
}

func TestProjectImportCmd(t *testing.T) {
	app := testApp(t)

	schema := importer.ImportSchema{
		Project: importer.ProjectImport{ShortID: "IMP01", Name: "Imported Build", StartDate: "2024-02-05"},
		Tasks: []importer.TaskImport{
			{Outline: "1", Name: "Mobilize", DurationHours: 8},
			{Outline: "2", Name: "Demobilize", DurationHours: 8,
				Predecessors: []importer.PredecessorImport{{Outline: "1"}}},
		},
	}
	data, err := json.Marshal(schema)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "build.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	output, err := executeCmd(t, app, "project", "import", path, "--fix")
	require.NoError(t, err)
	assert.Contains(t, output, "Imported project Imported Build [IMP01]")
	assert.Contains(t, output, "2 tasks, 1 links")
	assert.Contains(t, output, "no repairs needed")
}

func TestScheduleRecomputeCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "schedule", "recompute", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "scheduled 3 tasks")
}

func TestScheduleFixCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "schedule", "fix", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "no repairs needed")
}

func TestTaskListCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "list", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "Foundations")
	assert.Contains(t, output, "2 FS")
}

func TestTaskInsertCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "insert", "CLI01", "1",
		"--name", "Curing", "--hours", "24")
	require.NoError(t, err)
	assert.Contains(t, output, "created 2")

	p, err := app.Projects.Get(context.Background(), "CLI01")
	require.NoError(t, err)
	require.Len(t, p.Tasks, 4)
	assert.Equal(t, "Curing", p.TaskByOutline("2").Name)
}

func TestTaskAddCmd_AppendsWithoutReference(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "add", "CLI01", "--name", "Handover")
	require.NoError(t, err)
	assert.Contains(t, output, "created 4")

	p, err := app.Projects.Get(context.Background(), "CLI01")
	require.NoError(t, err)
	handover := p.TaskByOutline("4")
	require.NotNil(t, handover)
	assert.Equal(t, "Handover", handover.Name)
	// Appending chains from the previous last task by default.
	assert.True(t, handover.HasPredecessor("3"))
}

func TestViewCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "view", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "Excavation")
	assert.Contains(t, output, "Framing")

	output, err = executeCmd(t, app, "view", "CLI01", "--table")
	require.NoError(t, err)
	assert.Contains(t, output, "OUTLINE")
}

func TestTaskRemoveCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "remove", "CLI01", "2", "--relink")
	require.NoError(t, err)
	assert.Contains(t, output, "removed 2")

	p, err := app.Projects.Get(context.Background(), "CLI01")
	require.NoError(t, err)
	require.Len(t, p.Tasks, 2)
	// Framing slid into slot 2 and rebound to Excavation.
	assert.True(t, p.TaskByOutline("2").HasPredecessor("1"))
}

func TestTaskSetCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "set", "CLI01", "2",
		"--name", "Piled Foundations", "--hours", "40")
	require.NoError(t, err)
	assert.Contains(t, output, "Updated task 2")

	p, err := app.Projects.Get(context.Background(), "CLI01")
	require.NoError(t, err)
	foundations := p.TaskByOutline("2")
	assert.Equal(t, "Piled Foundations", foundations.Name)
	assert.Equal(t, float64(40), foundations.DurationHours)
}

func TestTaskSetCmd_UnknownConstraint(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	_, err := executeCmd(t, app, "task", "set", "CLI01", "2", "--constraint", "whenever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown constraint type")
}

func TestTaskMoveCmd_InvalidPosition(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	_, err := executeCmd(t, app, "task", "move", "CLI01", "3", "1", "--position", "inside")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before, after, under")
}

func TestTaskSplitCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "task", "split", "CLI01", "3", "--parts", "2")
	require.NoError(t, err)
	assert.Contains(t, output, "created 3.1, 3.2")
}

func TestReorganizeCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	output, err := executeCmd(t, app, "reorganize", "CLI01")
	require.NoError(t, err)
	assert.Contains(t, output, "PHASES")
}

func TestCommandErrorsSurfaceProjectNotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "schedule", "recompute", "GHOST99")
	require.Error(t, err)
}
