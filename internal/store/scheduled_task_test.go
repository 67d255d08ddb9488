package store

import (
	"context"
	"testing"

	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/model"
)

func setupScheduledTaskTestDB(t *testing.T) (*ScheduledTaskStore, *ProfileStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewScheduledTaskStore(db), NewProfileStore(db), NewHouseholdStore(db)
}

func TestScheduledTaskCreate(t *testing.T) {
	ss, ps, hs := setupScheduledTaskTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "")

	v, err := ss.Create(ctx, model.ScheduledTask{
		HouseholdID: h.ID,
		Title:       "Vacuum",
		AssignedTo:  alice.ID,
		DayOfWeek:   2,
		StartTime:   "09:00",
		EndTime:     "10:00",
		Points:      10,
		Category:    model.DefaultScheduledCategory,
		Recurring:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.DayOfWeek != 2 {
		t.Errorf("day_of_week = %d, want 2", v.DayOfWeek)
	}
	if !v.Recurring {
		t.Error("expected recurring")
	}
	// No full name, so the email local part is used.
	if v.AssigneeName != "alice" {
		t.Errorf("assignee_name = %q, want %q", v.AssigneeName, "alice")
	}
}

func TestScheduledTaskByDayOrderAndUnknown(t *testing.T) {
	ss, ps, hs := setupScheduledTaskTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	for _, in := range []struct{ title, assignee string }{
		{"first", alice.ID},
		{"second", "departed-user"},
		{"third", alice.ID},
	} {
		if _, err := ss.Create(ctx, model.ScheduledTask{
			HouseholdID: h.ID, Title: in.title, AssignedTo: in.assignee,
			DayOfWeek: 0, Points: 10, Category: "Cleaning",
		}); err != nil {
			t.Fatalf("create %s: %v", in.title, err)
		}
	}
	if _, err := ss.Create(ctx, model.ScheduledTask{
		HouseholdID: h.ID, Title: "other day", AssignedTo: alice.ID,
		DayOfWeek: 3, Points: 10, Category: "Cleaning",
	}); err != nil {
		t.Fatalf("create other day: %v", err)
	}

	monday, err := ss.ListByDay(ctx, h.ID, 0)
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(monday) != len(want) {
		t.Fatalf("len = %d, want %d", len(monday), len(want))
	}
	for i, title := range want {
		if monday[i].Title != title {
			t.Errorf("monday[%d] = %q, want %q", i, monday[i].Title, title)
		}
	}
	if monday[1].AssigneeName != model.UnknownAssigneeName {
		t.Errorf("assignee_name = %q, want %q", monday[1].AssigneeName, model.UnknownAssigneeName)
	}
	if monday[0].AssigneeName != "Alice" {
		t.Errorf("assignee_name = %q, want %q", monday[0].AssigneeName, "Alice")
	}

	week, err := ss.ListWeek(ctx, h.ID)
	if err != nil {
		t.Fatalf("list week: %v", err)
	}
	if len(week) != 4 {
		t.Fatalf("week len = %d, want 4", len(week))
	}
	if week[3].Title != "other day" {
		t.Errorf("week[3] = %q, want %q", week[3].Title, "other day")
	}
}

func TestScheduledTaskDelete(t *testing.T) {
	ss, ps, hs := setupScheduledTaskTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	v, _ := ss.Create(ctx, model.ScheduledTask{
		HouseholdID: h.ID, Title: "Laundry", AssignedTo: alice.ID,
		DayOfWeek: 5, Points: 10, Category: "Laundry",
	})

	ok, err := ss.Delete(ctx, h.ID, v.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report a removed row")
	}
	ok, _ = ss.Delete(ctx, h.ID, v.ID)
	if ok {
		t.Error("expected second delete to find nothing")
	}
}
