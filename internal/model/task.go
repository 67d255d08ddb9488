package model

import "time"

const (
	DefaultTaskPoints        = 10
	DefaultTaskCategory      = "Other"
	DefaultScheduledCategory = "Cleaning"
	UnknownAssigneeName      = "Unknown"
	DueDateLayout            = "2006-01-02"
	TimeOfDayLayout          = "15:04"
)

type Task struct {
	ID          string     `json:"id"`
	HouseholdID string     `json:"household_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     string     `json:"due_date"`
	Points      int        `json:"points"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PointsCredit records a payout made when a task is first completed.
type PointsCredit struct {
	ProfileID      string `json:"profile_id"`
	Points         int    `json:"points"`
	Balance        int    `json:"balance"`
	CompletedTasks int    `json:"completed_tasks"`
}

type ScheduledTask struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Title       string    `json:"title"`
	AssignedTo  string    `json:"assigned_to"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	Points      int       `json:"points"`
	Category    string    `json:"category"`
	Recurring   bool      `json:"recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScheduledTaskView is a scheduled task with the assignee's display name
// resolved at read time.
type ScheduledTaskView struct {
	ScheduledTask
	AssigneeName string `json:"assignee_name"`
}

// WeekdayNames maps DayOfWeek values to names. The week starts on Monday.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DaySchedule is one day of the weekly planner.
type DaySchedule struct {
	Day   int                 `json:"day"`
	Name  string              `json:"name"`
	Date  string              `json:"date"`
	Tasks []ScheduledTaskView `json:"tasks"`
}
