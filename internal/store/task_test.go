package store

import (
	"context"
	"testing"

	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/model"
)

func setupTaskTestDB(t *testing.T) (*TaskStore, *ProfileStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db), NewProfileStore(db), NewHouseholdStore(db)
}

func strPtr(s string) *string { return &s }

func TestTaskCRUD(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	task, err := ts.Create(ctx, model.Task{
		HouseholdID: h.ID,
		Title:       "Take out trash",
		AssignedTo:  strPtr(alice.ID),
		DueDate:     "2026-10-20",
		Points:      15,
		Category:    "Cleaning",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "Take out trash" {
		t.Errorf("title = %q, want %q", task.Title, "Take out trash")
	}
	if task.Completed {
		t.Error("expected new task to be incomplete")
	}
	if task.AssignedTo == nil || *task.AssignedTo != alice.ID {
		t.Errorf("assigned_to = %v, want %q", task.AssignedTo, alice.ID)
	}

	task.Title = "Take out recycling"
	task.AssignedTo = nil
	task.Points = 20
	updated, err := ts.Update(ctx, *task)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Title != "Take out recycling" {
		t.Errorf("title = %q, want %q", updated.Title, "Take out recycling")
	}
	if updated.AssignedTo != nil {
		t.Errorf("assigned_to = %v, want nil", *updated.AssignedTo)
	}
	if updated.Points != 20 {
		t.Errorf("points = %d, want 20", updated.Points)
	}

	deleted, err := ts.Delete(ctx, h.ID, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed row")
	}
	got, err := ts.GetByID(ctx, h.ID, task.ID)
	if err != nil {
		t.Fatalf("get deleted task: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestTaskListOrder(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	ctx := context.Background()
	_, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	for _, in := range []struct{ title, due string }{
		{"later", "2026-10-22"},
		{"first today", "2026-10-20"},
		{"second today", "2026-10-20"},
	} {
		if _, err := ts.Create(ctx, model.Task{HouseholdID: h.ID, Title: in.title, DueDate: in.due, Points: 10, Category: "Other"}); err != nil {
			t.Fatalf("create %s: %v", in.title, err)
		}
	}

	tasks, err := ts.List(ctx, h.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"first today", "second today", "later"}
	if len(tasks) != len(want) {
		t.Fatalf("len = %d, want %d", len(tasks), len(want))
	}
	for i, title := range want {
		if tasks[i].Title != title {
			t.Errorf("tasks[%d] = %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestTaskCompleteCreditsOnce(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	task, _ := ts.Create(ctx, model.Task{
		HouseholdID: h.ID, Title: "Dishes", AssignedTo: strPtr(alice.ID),
		DueDate: "2026-10-20", Points: 10, Category: "Other",
	})

	done, credit, err := ts.Complete(ctx, h.ID, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Error("expected task to be completed with a timestamp")
	}
	if credit == nil {
		t.Fatal("expected a points credit")
	}
	if credit.Balance != 10 || credit.CompletedTasks != 1 {
		t.Errorf("credit = %+v, want balance 10, completed 1", credit)
	}

	_, again, err := ts.Complete(ctx, h.ID, task.ID)
	if err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if again != nil {
		t.Errorf("second completion credit = %+v, want nil", again)
	}

	p, _ := ps.GetByID(ctx, alice.ID)
	if p.Points != 10 {
		t.Errorf("points = %d, want 10", p.Points)
	}
	if p.CompletedTasks != 1 {
		t.Errorf("completed_tasks = %d, want 1", p.CompletedTasks)
	}
}

func TestTaskCompleteUnassigned(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	ctx := context.Background()
	_, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	task, _ := ts.Create(ctx, model.Task{HouseholdID: h.ID, Title: "Mop", DueDate: "2026-10-20", Points: 10, Category: "Other"})

	done, credit, err := ts.Complete(ctx, h.ID, task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.Completed {
		t.Error("expected completed")
	}
	if credit != nil {
		t.Errorf("credit = %+v, want nil", credit)
	}
}

func TestTaskCompleteMissing(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	_, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	task, credit, err := ts.Complete(context.Background(), h.ID, "missing")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task != nil || credit != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", task, credit)
	}
}

func TestTaskCountsAndUpcoming(t *testing.T) {
	ts, ps, hs := setupTaskTestDB(t)
	ctx := context.Background()
	_, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	a, _ := ts.Create(ctx, model.Task{HouseholdID: h.ID, Title: "a", DueDate: "2026-10-21", Points: 10, Category: "Other"})
	ts.Create(ctx, model.Task{HouseholdID: h.ID, Title: "b", DueDate: "2026-10-22", Points: 10, Category: "Other"})
	ts.Create(ctx, model.Task{HouseholdID: h.ID, Title: "c", DueDate: "2026-10-20", Points: 10, Category: "Other"})
	if _, _, err := ts.Complete(ctx, h.ID, a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	total, completed, err := ts.Counts(ctx, h.ID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if total != 3 || completed != 1 {
		t.Errorf("counts = (%d, %d), want (3, 1)", total, completed)
	}

	upcoming, err := ts.Upcoming(ctx, h.ID, 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("len = %d, want 2", len(upcoming))
	}
	if upcoming[0].Title != "c" || upcoming[1].Title != "b" {
		t.Errorf("upcoming = [%q %q], want [c b]", upcoming[0].Title, upcoming[1].Title)
	}
}
