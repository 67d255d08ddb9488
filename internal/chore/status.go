// Package chore works out where tasks and weekly slots fall relative to a
// given day.
package chore

import (
	"time"

	"github.com/dukerupert/homehub/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusDueToday  Status = "due_today"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// TaskStatus classifies a task against today. Due dates are calendar days in
// today's location; an unparsable due date counts as pending.
func TaskStatus(t model.Task, today time.Time) Status {
	if t.Completed {
		return StatusCompleted
	}

	due, err := time.ParseInLocation(model.DueDateLayout, t.DueDate, today.Location())
	if err != nil {
		return StatusPending
	}

	today = startOfDay(today)
	switch {
	case due.Before(today):
		return StatusOverdue
	case due.Equal(today):
		return StatusDueToday
	default:
		return StatusPending
	}
}

// CountOverdue returns how many tasks are overdue as of today.
func CountOverdue(tasks []model.Task, today time.Time) int {
	n := 0
	for _, t := range tasks {
		if TaskStatus(t, today) == StatusOverdue {
			n++
		}
	}
	return n
}

// DayIndex converts a time.Weekday to a schedule day, 0 being Monday.
func DayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// NextOccurrence returns the first date on or after from that falls on the
// schedule day.
func NextOccurrence(day int, from time.Time) time.Time {
	from = startOfDay(from)
	delta := (day - DayIndex(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, delta)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
