package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/google/uuid"
)

type ScheduledTaskStore struct {
	db *sql.DB
}

func NewScheduledTaskStore(db *sql.DB) *ScheduledTaskStore {
	return &ScheduledTaskStore{db: db}
}

// scanScheduledTaskView reads a scheduled task row left-joined against the
// assignee's profile. An assignee that is gone or no longer in the household
// is shown as model.UnknownAssigneeName.
func scanScheduledTaskView(scanner interface{ Scan(...any) error }) (*model.ScheduledTaskView, error) {
	var v model.ScheduledTaskView
	var recurring int
	var fullName, email sql.NullString

	err := scanner.Scan(
		&v.ID, &v.HouseholdID, &v.Title, &v.AssignedTo, &v.DayOfWeek, &v.StartTime, &v.EndTime,
		&v.Points, &v.Category, &recurring, &v.CreatedAt, &fullName, &email,
	)
	if err != nil {
		return nil, err
	}

	v.Recurring = recurring != 0
	if email.Valid {
		v.AssigneeName = model.DisplayName(fullName.String, email.String)
	} else {
		v.AssigneeName = model.UnknownAssigneeName
	}
	return &v, nil
}

const scheduledTaskViewSelect = `SELECT st.id, st.household_id, st.title, st.assigned_to, st.day_of_week,
	st.start_time, st.end_time, st.points, st.category, st.recurring, st.created_at,
	p.full_name, p.email
	FROM scheduled_tasks st
	LEFT JOIN profiles p ON p.id = st.assigned_to AND p.household_id = st.household_id`

func (s *ScheduledTaskStore) Create(ctx context.Context, st model.ScheduledTask) (*model.ScheduledTaskView, error) {
	st.ID = uuid.NewString()

	var recurring int
	if st.Recurring {
		recurring = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scheduled_tasks (id, household_id, title, assigned_to, day_of_week, start_time, end_time, points, category, recurring, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.HouseholdID, st.Title, st.AssignedTo, st.DayOfWeek, st.StartTime, st.EndTime,
		st.Points, st.Category, recurring, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scheduled task: %w", err)
	}
	return s.GetByID(ctx, st.HouseholdID, st.ID)
}

func (s *ScheduledTaskStore) GetByID(ctx context.Context, householdID, id string) (*model.ScheduledTaskView, error) {
	row := s.db.QueryRowContext(ctx,
		scheduledTaskViewSelect+` WHERE st.id = ? AND st.household_id = ?`, id, householdID,
	)
	v, err := scanScheduledTaskView(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled task: %w", err)
	}
	return v, nil
}

// ListByDay returns one day's scheduled tasks in insertion order.
func (s *ScheduledTaskStore) ListByDay(ctx context.Context, householdID string, day int) ([]model.ScheduledTaskView, error) {
	return s.query(ctx, "list scheduled tasks by day",
		scheduledTaskViewSelect+` WHERE st.household_id = ? AND st.day_of_week = ? ORDER BY st.rowid ASC`,
		householdID, day,
	)
}

// ListWeek returns every scheduled task, grouped by day in insertion order.
func (s *ScheduledTaskStore) ListWeek(ctx context.Context, householdID string) ([]model.ScheduledTaskView, error) {
	return s.query(ctx, "list scheduled tasks",
		scheduledTaskViewSelect+` WHERE st.household_id = ? ORDER BY st.day_of_week ASC, st.rowid ASC`,
		householdID,
	)
}

func (s *ScheduledTaskStore) query(ctx context.Context, op, query string, args ...any) ([]model.ScheduledTaskView, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var views []model.ScheduledTaskView
	for rows.Next() {
		v, err := scanScheduledTaskView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled task: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

func (s *ScheduledTaskStore) Delete(ctx context.Context, householdID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM scheduled_tasks WHERE id = ? AND household_id = ?`, id, householdID,
	)
	if err != nil {
		return false, fmt.Errorf("delete scheduled task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
