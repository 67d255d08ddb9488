package service

import (
	"context"
	"strings"
	"time"

	"github.com/dukerupert/homehub/internal/chore"
	"github.com/dukerupert/homehub/internal/model"
)

type ScheduledInput struct {
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to"`
	DayOfWeek  int    `json:"day_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Points     int    `json:"points"`
	Category   string `json:"category"`
	Recurring  *bool  `json:"recurring"`
}

func validDay(day int) error {
	if day < 0 || day > 6 {
		return invalid("day of week must be between 0 and 6")
	}
	return nil
}

func parseTimeOfDay(field, v string) (time.Time, error) {
	t, err := time.Parse(model.TimeOfDayLayout, v)
	if err != nil {
		return time.Time{}, invalid("%s must be HH:MM", field)
	}
	return t, nil
}

// AddScheduled stores a weekly recurring chore slot.
func (s *Service) AddScheduled(ctx context.Context, householdID string, in ScheduledInput) (*model.ScheduledTaskView, error) {
	st := model.ScheduledTask{
		HouseholdID: householdID,
		Title:       strings.TrimSpace(in.Title),
		AssignedTo:  strings.TrimSpace(in.AssignedTo),
		DayOfWeek:   in.DayOfWeek,
		StartTime:   strings.TrimSpace(in.StartTime),
		EndTime:     strings.TrimSpace(in.EndTime),
		Category:    strings.TrimSpace(in.Category),
		Recurring:   true,
	}

	if st.Title == "" {
		return nil, invalid("title is required")
	}
	if st.AssignedTo == "" {
		return nil, invalid("assignee is required")
	}
	if err := validDay(st.DayOfWeek); err != nil {
		return nil, err
	}

	var start, end time.Time
	var err error
	if st.StartTime != "" {
		if start, err = parseTimeOfDay("start time", st.StartTime); err != nil {
			return nil, err
		}
	}
	if st.EndTime != "" {
		if end, err = parseTimeOfDay("end time", st.EndTime); err != nil {
			return nil, err
		}
	}
	if st.StartTime != "" && st.EndTime != "" && !end.After(start) {
		return nil, invalid("end time must be after start time")
	}
	if st.StartTime != "" {
		st.StartTime = start.Format(model.TimeOfDayLayout)
	}
	if st.EndTime != "" {
		st.EndTime = end.Format(model.TimeOfDayLayout)
	}

	if st.Points, err = normalizePoints(in.Points); err != nil {
		return nil, err
	}
	if st.Category == "" {
		st.Category = model.DefaultScheduledCategory
	}
	if in.Recurring != nil {
		st.Recurring = *in.Recurring
	}

	if err := s.requireMember(ctx, householdID, st.AssignedTo); err != nil {
		return nil, err
	}

	v, err := s.schedule.Create(ctx, st)
	if err != nil {
		return nil, backend(err)
	}
	return v, nil
}

// ByDay returns one day's slots in the order they were added.
func (s *Service) ByDay(ctx context.Context, householdID string, day int) ([]model.ScheduledTaskView, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	views, err := s.schedule.ListByDay(ctx, householdID, day)
	if err != nil {
		return nil, backend(err)
	}
	if views == nil {
		views = []model.ScheduledTaskView{}
	}
	return views, nil
}

// Week returns all seven days, Monday first, each with its slots and the
// date that day next falls on.
func (s *Service) Week(ctx context.Context, householdID string) ([]model.DaySchedule, error) {
	views, err := s.schedule.ListWeek(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}

	today := s.now()
	week := make([]model.DaySchedule, len(model.WeekdayNames))
	for day, name := range model.WeekdayNames {
		week[day] = model.DaySchedule{
			Day:   day,
			Name:  name,
			Date:  chore.NextOccurrence(day, today).Format(model.DueDateLayout),
			Tasks: []model.ScheduledTaskView{},
		}
	}
	for _, v := range views {
		week[v.DayOfWeek].Tasks = append(week[v.DayOfWeek].Tasks, v)
	}
	return week, nil
}

func (s *Service) RemoveScheduled(ctx context.Context, householdID, id string) error {
	ok, err := s.schedule.Delete(ctx, householdID, id)
	if err != nil {
		return backend(err)
	}
	if !ok {
		return notFound("scheduled task")
	}
	return nil
}
