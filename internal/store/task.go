package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/google/uuid"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var assignedTo sql.NullString
	var completed int
	var completedAt sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &t.Title, &t.Description, &assignedTo, &t.DueDate,
		&t.Points, &completed, &completedAt, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		t.AssignedTo = &assignedTo.String
	}
	t.Completed = completed != 0
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	return &t, nil
}

const taskCols = `id, household_id, title, description, assigned_to, due_date, points, completed, completed_at, category, created_at, updated_at`

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create inserts t, assigning its ID and timestamps. Completion fields are
// ignored; new tasks always start incomplete.
func (s *TaskStore) Create(ctx context.Context, t model.Task) (*model.Task, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, household_id, title, description, assigned_to, due_date, points, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.HouseholdID, t.Title, t.Description, nullString(t.AssignedTo), t.DueDate,
		t.Points, t.Category, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(ctx, t.HouseholdID, t.ID)
}

func (s *TaskStore) GetByID(ctx context.Context, householdID, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = ? AND household_id = ?`, id, householdID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns the household's tasks by due date, then creation order.
func (s *TaskStore) List(ctx context.Context, householdID string) ([]model.Task, error) {
	return s.query(ctx, "list tasks",
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? ORDER BY due_date ASC, created_at ASC, rowid ASC`,
		householdID,
	)
}

// Upcoming returns up to limit incomplete tasks by due date.
func (s *TaskStore) Upcoming(ctx context.Context, householdID string, limit int) ([]model.Task, error) {
	return s.query(ctx, "list upcoming tasks",
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? AND completed = 0
		 ORDER BY due_date ASC, created_at ASC, rowid ASC LIMIT ?`,
		householdID, limit,
	)
}

func (s *TaskStore) query(ctx context.Context, op, query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Counts returns the number of tasks and completed tasks in the household.
func (s *TaskStore) Counts(ctx context.Context, householdID string) (total, completed int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks WHERE household_id = ?`,
		householdID,
	).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, completed, nil
}

// Update edits the task's editable fields. Completion state is untouched.
func (s *TaskStore) Update(ctx context.Context, t model.Task) (*model.Task, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, assigned_to = ?, due_date = ?, points = ?, category = ?, updated_at = ?
		 WHERE id = ? AND household_id = ?`,
		t.Title, t.Description, nullString(t.AssignedTo), t.DueDate, t.Points, t.Category,
		time.Now().UTC(), t.ID, t.HouseholdID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(ctx, t.HouseholdID, t.ID)
}

// Delete removes a task. Points already credited for it stay credited.
func (s *TaskStore) Delete(ctx context.Context, householdID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND household_id = ?`, id, householdID,
	)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Complete marks a task completed. Only the first transition from incomplete
// to complete pays out: the assignee, if any, is credited the task's points
// and their completed count is incremented in the same transaction. Repeated
// calls return the task with a nil credit. A nil task means not found.
func (s *TaskStore) Complete(ctx context.Context, householdID, id string) (*model.Task, *model.PointsCredit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE tasks SET completed = 1, completed_at = ?, updated_at = ?
		 WHERE id = ? AND household_id = ? AND completed = 0`,
		now, now, id, householdID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("complete task: %w", err)
	}
	transitioned, err := result.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("rows affected: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+taskCols+` FROM tasks WHERE id = ? AND household_id = ?`, id, householdID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get task: %w", err)
	}

	var credit *model.PointsCredit
	if transitioned == 1 && t.AssignedTo != nil {
		c := model.PointsCredit{ProfileID: *t.AssignedTo, Points: t.Points}
		err := tx.QueryRowContext(ctx,
			`UPDATE profiles SET points = points + ?, completed_tasks = completed_tasks + 1, updated_at = ?
			 WHERE id = ? RETURNING points, completed_tasks`,
			t.Points, now, c.ProfileID,
		).Scan(&c.Balance, &c.CompletedTasks)
		if err != nil && err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("credit points: %w", err)
		}
		if err == nil {
			credit = &c
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit completion: %w", err)
	}
	return t, credit, nil
}
