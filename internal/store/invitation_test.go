package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/model"
)

func setupInvitationTestDB(t *testing.T) (*InvitationStore, *ProfileStore, *HouseholdStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewInvitationStore(db), NewProfileStore(db), NewHouseholdStore(db)
}

func newInvitation(from *model.Profile, h *model.Household, to string) model.Invitation {
	return model.Invitation{
		FromUserID:    from.ID,
		FromUserName:  from.FullName,
		ToEmail:       to,
		HouseholdID:   h.ID,
		HouseholdName: h.Name,
	}
}

func TestInvitationCreateAndList(t *testing.T) {
	is, ps, hs := setupInvitationTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	inv, err := is.Create(ctx, newInvitation(alice, h, "bob@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Status != model.InvitationPending {
		t.Errorf("status = %q, want %q", inv.Status, model.InvitationPending)
	}
	if inv.HouseholdName != model.DefaultHouseholdName {
		t.Errorf("household_name = %q, want %q", inv.HouseholdName, model.DefaultHouseholdName)
	}
	if inv.RespondedAt != nil {
		t.Error("expected nil responded_at")
	}

	pending, err := is.FindPending(ctx, h.ID, "bob@example.com")
	if err != nil {
		t.Fatalf("find pending: %v", err)
	}
	if pending == nil || pending.ID != inv.ID {
		t.Errorf("find pending = %v, want %q", pending, inv.ID)
	}

	list, err := is.ListPendingForEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}

	sent, _ := is.ListByHousehold(ctx, h.ID)
	if len(sent) != 1 {
		t.Errorf("sent len = %d, want 1", len(sent))
	}
}

func TestInvitationAccept(t *testing.T) {
	is, ps, hs := setupInvitationTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")
	bob, _ := ps.Create(ctx, "bob@example.com", "Bob", "h")

	inv, _ := is.Create(ctx, newInvitation(alice, h, "bob@example.com"))

	accepted, err := is.Accept(ctx, inv.ID, bob.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != model.InvitationAccepted {
		t.Errorf("status = %q, want %q", accepted.Status, model.InvitationAccepted)
	}
	if accepted.RespondedAt == nil {
		t.Error("expected responded_at to be set")
	}

	p, _ := ps.GetByID(ctx, bob.ID)
	if p.HouseholdID == nil || *p.HouseholdID != h.ID {
		t.Errorf("household_id = %v, want %q", p.HouseholdID, h.ID)
	}

	if _, err := is.Accept(ctx, inv.ID, bob.ID); !errors.Is(err, ErrInvitationNotPending) {
		t.Errorf("second accept err = %v, want ErrInvitationNotPending", err)
	}
	if _, err := is.Reject(ctx, inv.ID); !errors.Is(err, ErrInvitationNotPending) {
		t.Errorf("reject after accept err = %v, want ErrInvitationNotPending", err)
	}
}

func TestInvitationReject(t *testing.T) {
	is, ps, hs := setupInvitationTestDB(t)
	ctx := context.Background()
	alice, h := createMember(t, ps, hs, "alice@example.com", "Alice")

	inv, _ := is.Create(ctx, newInvitation(alice, h, "bob@example.com"))

	rejected, err := is.Reject(ctx, inv.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.InvitationRejected {
		t.Errorf("status = %q, want %q", rejected.Status, model.InvitationRejected)
	}

	pending, _ := is.ListPendingForEmail(ctx, "bob@example.com")
	if len(pending) != 0 {
		t.Errorf("pending len = %d, want 0", len(pending))
	}
}
