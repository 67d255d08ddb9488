package service

import (
	"context"
	"strings"
	"time"

	"github.com/dukerupert/homehub/internal/model"
)

type TaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     string  `json:"due_date"`
	Points      int     `json:"points"`
	Category    string  `json:"category"`
}

// Completion is the result of CompleteTask. Credit is nil unless this call
// moved the task from incomplete to complete and it had an assignee.
type Completion struct {
	Task   model.Task          `json:"task"`
	Credit *model.PointsCredit `json:"credit"`
}

// normalizePoints applies the default for zero and rejects negatives.
func normalizePoints(points int) (int, error) {
	if points < 0 {
		return 0, invalid("points must be positive")
	}
	if points == 0 {
		return model.DefaultTaskPoints, nil
	}
	return points, nil
}

func (s *Service) requireMember(ctx context.Context, householdID, profileID string) error {
	ok, err := s.profiles.IsMember(ctx, householdID, profileID)
	if err != nil {
		return backend(err)
	}
	if !ok {
		return invalid("assignee is not a member of this household")
	}
	return nil
}

// buildTask validates in and returns the task it describes. Assignment is
// required when creating but may be cleared on update.
func (s *Service) buildTask(ctx context.Context, householdID string, in TaskInput, requireAssignee bool) (model.Task, error) {
	t := model.Task{
		HouseholdID: householdID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     strings.TrimSpace(in.DueDate),
		Category:    strings.TrimSpace(in.Category),
	}

	if t.Title == "" {
		return t, invalid("title is required")
	}
	if t.DueDate == "" {
		return t, invalid("due date is required")
	}
	if _, err := time.Parse(model.DueDateLayout, t.DueDate); err != nil {
		return t, invalid("due date must be YYYY-MM-DD")
	}

	points, err := normalizePoints(in.Points)
	if err != nil {
		return t, err
	}
	t.Points = points

	if t.Category == "" {
		t.Category = model.DefaultTaskCategory
	}

	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) != "" {
		assignee := strings.TrimSpace(*in.AssignedTo)
		if err := s.requireMember(ctx, householdID, assignee); err != nil {
			return t, err
		}
		t.AssignedTo = &assignee
	} else if requireAssignee {
		return t, invalid("assignee is required")
	}

	return t, nil
}

func (s *Service) CreateTask(ctx context.Context, householdID string, in TaskInput) (*model.Task, error) {
	t, err := s.buildTask(ctx, householdID, in, true)
	if err != nil {
		return nil, err
	}

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return nil, backend(err)
	}
	return created, nil
}

func (s *Service) Task(ctx context.Context, householdID, taskID string) (*model.Task, error) {
	t, err := s.tasks.GetByID(ctx, householdID, taskID)
	if err != nil {
		return nil, backend(err)
	}
	if t == nil {
		return nil, notFound("task")
	}
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, householdID string) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// UpdateTask replaces the editable fields of a task. Zero points keeps the
// task's current value. It never changes completion state or points already
// credited.
func (s *Service) UpdateTask(ctx context.Context, householdID, taskID string, in TaskInput) (*model.Task, error) {
	existing, err := s.Task(ctx, householdID, taskID)
	if err != nil {
		return nil, err
	}
	if in.Points == 0 {
		in.Points = existing.Points
	}

	t, err := s.buildTask(ctx, householdID, in, false)
	if err != nil {
		return nil, err
	}
	t.ID = taskID

	updated, err := s.tasks.Update(ctx, t)
	if err != nil {
		return nil, backend(err)
	}
	if updated == nil {
		return nil, notFound("task")
	}
	return updated, nil
}

// CompleteTask marks the task done. The first completion credits the
// assignee; later calls are no-ops that return the task with no credit.
func (s *Service) CompleteTask(ctx context.Context, householdID, taskID string) (*Completion, error) {
	t, credit, err := s.tasks.Complete(ctx, householdID, taskID)
	if err != nil {
		return nil, backend(err)
	}
	if t == nil {
		return nil, notFound("task")
	}

	if credit != nil {
		s.logger.Info("points credited",
			"task_id", t.ID, "profile_id", credit.ProfileID, "points", credit.Points, "balance", credit.Balance)
	}
	return &Completion{Task: *t, Credit: credit}, nil
}

// DeleteTask removes a task whether or not it was completed. Credits
// already paid are kept.
func (s *Service) DeleteTask(ctx context.Context, householdID, taskID string) error {
	ok, err := s.tasks.Delete(ctx, householdID, taskID)
	if err != nil {
		return backend(err)
	}
	if !ok {
		return notFound("task")
	}
	return nil
}
