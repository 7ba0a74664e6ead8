package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/falsework/internal/db"
	"github.com/alexanderramin/falsework/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `uid, project_id, outline_number, outline_level, name, duration_hours,
	start_date, finish_date, is_milestone, percent_complete,
	constraint_type, constraint_date, notes, created_at, updated_at`

// ReplaceAll deletes the project's existing task rows and inserts the given
// list, predecessor links included. Callers run it inside a unit of work so
// the delete-and-insert pair is atomic.
func (r *SQLiteTaskRepo) ReplaceAll(ctx context.Context, projectID string, tasks []*domain.Task) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	insertTask := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertLink := `INSERT INTO task_predecessors (task_uid, position, ref_outline, link_type, lag, lag_format)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, t := range tasks {
		_, err := r.db.ExecContext(ctx, insertTask,
			t.UID,
			projectID,
			t.OutlineNumber,
			t.OutlineLevel,
			t.Name,
			t.DurationHours,
			nullableTimeToString(t.Start, dateLayout),
			nullableTimeToString(t.Finish, dateLayout),
			boolToInt(t.IsMilestone),
			t.PercentComplete,
			string(t.ConstraintType),
			nullableTimeToString(t.ConstraintDate, dateLayout),
			t.Notes,
			t.CreatedAt.Format(time.RFC3339),
			t.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting task %s: %w", t.OutlineNumber, err)
		}
		for i, link := range t.Predecessors {
			_, err := r.db.ExecContext(ctx, insertLink,
				t.UID, i, link.RefOutline, string(link.Type), link.Lag, string(link.LagFormat))
			if err != nil {
				return fmt.Errorf("inserting predecessor %s of task %s: %w", link.RefOutline, t.OutlineNumber, err)
			}
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	byUID := make(map[string]*domain.Task)
	for rows.Next() {
		t, err := scanTaskFromRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		byUID[t.UID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	if err := r.attachPredecessors(ctx, projectID, byUID); err != nil {
		return nil, err
	}

	sortTasksByOutline(tasks)
	return tasks, nil
}

func (r *SQLiteTaskRepo) GetByOutline(ctx context.Context, projectID, outline string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND outline_number = ?`
	rows, err := r.db.QueryContext(ctx, query, projectID, outline)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", outline, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("loading task %s: %w", outline, err)
		}
		return nil, fmt.Errorf("task %s: %w", outline, ErrNotFound)
	}
	t, err := scanTaskFromRows(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachPredecessors(ctx, projectID, map[string]*domain.Task{t.UID: t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return n, nil
}

func (r *SQLiteTaskRepo) attachPredecessors(ctx context.Context, projectID string, byUID map[string]*domain.Task) error {
	query := `SELECT p.task_uid, p.ref_outline, p.link_type, p.lag, p.lag_format
		FROM task_predecessors p
		JOIN tasks t ON t.uid = p.task_uid
		WHERE t.project_id = ?
		ORDER BY p.task_uid, p.position`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskUID, refOutline, linkType, lagFormat string
		var lag float64
		if err := rows.Scan(&taskUID, &refOutline, &linkType, &lag, &lagFormat); err != nil {
			return fmt.Errorf("scanning predecessor row: %w", err)
		}
		t, ok := byUID[taskUID]
		if !ok {
			continue
		}
		t.Predecessors = append(t.Predecessors, domain.PredecessorLink{
			RefOutline: refOutline,
			Type:       domain.LinkType(linkType),
			Lag:        lag,
			LagFormat:  domain.LagFormat(lagFormat),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating predecessors: %w", err)
	}
	return nil
}

func scanTaskFromRows(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var projectID, constraintStr, createdAtStr, updatedAtStr string
	var startStr, finishStr, constraintDateStr sql.NullString
	var milestone int

	err := rows.Scan(
		&t.UID, &projectID, &t.OutlineNumber, &t.OutlineLevel, &t.Name, &t.DurationHours,
		&startStr, &finishStr, &milestone, &t.PercentComplete,
		&constraintStr, &constraintDateStr, &t.Notes,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task row: %w", err)
	}

	t.IsMilestone = intToBool(milestone)
	t.ConstraintType = domain.ConstraintType(constraintStr)
	t.Start = parseNullableTime(startStr, dateLayout)
	t.Finish = parseNullableTime(finishStr, dateLayout)
	t.ConstraintDate = parseNullableTime(constraintDateStr, dateLayout)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &t, nil
}
