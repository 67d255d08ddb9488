package store

import (
	"context"
	"testing"

	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/model"
)

func setupProfileTestDB(t *testing.T) (*ProfileStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProfileStore(db), NewHouseholdStore(db)
}

// createMember makes a profile and puts it in a household of its own.
func createMember(t *testing.T, ps *ProfileStore, hs *HouseholdStore, email, name string) (*model.Profile, *model.Household) {
	t.Helper()
	ctx := context.Background()
	p, err := ps.Create(ctx, email, name, "hash")
	if err != nil {
		t.Fatalf("create profile %s: %v", email, err)
	}
	h, _, err := hs.EnsureForProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("ensure household for %s: %v", email, err)
	}
	return p, h
}

func TestProfileCreate(t *testing.T) {
	ps, _ := setupProfileTestDB(t)
	ctx := context.Background()

	p, err := ps.Create(ctx, "alice@example.com", "Alice", "bcrypt-hash")
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if p.ID == "" {
		t.Error("expected non-empty ID")
	}
	if p.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", p.Email, "alice@example.com")
	}
	if p.Role != model.DefaultRole {
		t.Errorf("role = %q, want %q", p.Role, model.DefaultRole)
	}
	if p.Points != 0 {
		t.Errorf("points = %d, want 0", p.Points)
	}
	if p.Theme != model.ThemeLight {
		t.Errorf("theme = %q, want %q", p.Theme, model.ThemeLight)
	}
	if p.Notifications != model.NotifyAll {
		t.Errorf("notifications = %q, want %q", p.Notifications, model.NotifyAll)
	}
	if p.HouseholdID != nil {
		t.Errorf("household_id = %v, want nil", *p.HouseholdID)
	}

	hash, err := ps.PasswordHash(ctx, p.ID)
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if hash != "bcrypt-hash" {
		t.Errorf("hash = %q, want %q", hash, "bcrypt-hash")
	}
}

func TestProfileDuplicateEmail(t *testing.T) {
	ps, _ := setupProfileTestDB(t)
	ctx := context.Background()

	if _, err := ps.Create(ctx, "alice@example.com", "Alice", "h"); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if _, err := ps.Create(ctx, "alice@example.com", "Alice Again", "h"); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestProfileGetByEmail(t *testing.T) {
	ps, _ := setupProfileTestDB(t)
	ctx := context.Background()

	created, _ := ps.Create(ctx, "alice@example.com", "Alice", "h")

	p, err := ps.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if p == nil || p.ID != created.ID {
		t.Fatalf("got %+v, want profile %s", p, created.ID)
	}

	missing, err := ps.GetByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestProfileUpdateSettings(t *testing.T) {
	ps, _ := setupProfileTestDB(t)
	ctx := context.Background()

	p, _ := ps.Create(ctx, "alice@example.com", "Alice", "h")
	p.FullName = "Alice Smith"
	p.Role = "Parent"
	p.AvatarURL = "https://example.com/a.png"
	p.Theme = model.ThemeDark
	p.Notifications = model.NotifyNone

	updated, err := ps.UpdateSettings(ctx, p)
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.FullName != "Alice Smith" {
		t.Errorf("full_name = %q, want %q", updated.FullName, "Alice Smith")
	}
	if updated.Role != "Parent" {
		t.Errorf("role = %q, want %q", updated.Role, "Parent")
	}
	if updated.Theme != model.ThemeDark {
		t.Errorf("theme = %q, want %q", updated.Theme, model.ThemeDark)
	}
	if updated.Notifications != model.NotifyNone {
		t.Errorf("notifications = %q, want %q", updated.Notifications, model.NotifyNone)
	}
}

func TestProfileMembership(t *testing.T) {
	ps, hs := setupProfileTestDB(t)
	ctx := context.Background()

	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")
	bob, _ := createMember(t, ps, hs, "bob@example.com", "Bob")

	ok, err := ps.IsMember(ctx, h.ID, alice.ID)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !ok {
		t.Error("expected alice to be a member")
	}
	ok, _ = ps.IsMember(ctx, h.ID, bob.ID)
	if ok {
		t.Error("expected bob not to be a member")
	}

	ok, _ = ps.EmailInHousehold(ctx, h.ID, "alice@example.com")
	if !ok {
		t.Error("expected alice's email in household")
	}

	members, err := ps.ListByHousehold(ctx, h.ID)
	if err != nil {
		t.Fatalf("list by household: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("len = %d, want 1", len(members))
	}

	if err := ps.ClearHousehold(ctx, alice.ID); err != nil {
		t.Fatalf("clear household: %v", err)
	}
	got, _ := ps.GetByID(ctx, alice.ID)
	if got.HouseholdID != nil {
		t.Errorf("household_id = %v, want nil", *got.HouseholdID)
	}
}
