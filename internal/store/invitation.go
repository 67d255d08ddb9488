package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/google/uuid"
)

// ErrInvitationNotPending is returned when an accept or reject targets an
// invitation that has already been answered.
var ErrInvitationNotPending = errors.New("invitation is not pending")

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	var status string
	var respondedAt sql.NullTime

	err := scanner.Scan(
		&inv.ID, &inv.FromUserID, &inv.FromUserName, &inv.ToEmail, &inv.HouseholdID,
		&inv.HouseholdName, &status, &inv.CreatedAt, &respondedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Status = model.InvitationStatus(status)
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return &inv, nil
}

const invitationCols = `id, from_user_id, from_user_name, to_email, household_id, household_name, status, created_at, responded_at`

func (s *InvitationStore) Create(ctx context.Context, inv model.Invitation) (*model.Invitation, error) {
	inv.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO household_invitations (id, from_user_id, from_user_name, to_email, household_id, household_name, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.FromUserID, inv.FromUserName, inv.ToEmail, inv.HouseholdID, inv.HouseholdName,
		string(model.InvitationPending), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	return s.GetByID(ctx, inv.ID)
}

func (s *InvitationStore) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invitationCols+` FROM household_invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// FindPending returns the pending invitation for email into the household,
// if one exists.
func (s *InvitationStore) FindPending(ctx context.Context, householdID, email string) (*model.Invitation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invitationCols+` FROM household_invitations
		 WHERE household_id = ? AND to_email = ? AND status = ?
		 ORDER BY created_at ASC, rowid ASC LIMIT 1`,
		householdID, email, string(model.InvitationPending),
	)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find pending invitation: %w", err)
	}
	return inv, nil
}

// ListPendingForEmail returns pending invitations addressed to email, newest
// first.
func (s *InvitationStore) ListPendingForEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	return s.query(ctx, "list pending invitations",
		`SELECT `+invitationCols+` FROM household_invitations
		 WHERE to_email = ? AND status = ? ORDER BY created_at DESC, rowid DESC`,
		email, string(model.InvitationPending),
	)
}

// ListByHousehold returns every invitation sent into the household, newest
// first.
func (s *InvitationStore) ListByHousehold(ctx context.Context, householdID string) ([]model.Invitation, error) {
	return s.query(ctx, "list household invitations",
		`SELECT `+invitationCols+` FROM household_invitations
		 WHERE household_id = ? ORDER BY created_at DESC, rowid DESC`,
		householdID,
	)
}

func (s *InvitationStore) query(ctx context.Context, op, query string, args ...any) ([]model.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var invitations []model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// Accept marks the invitation accepted and moves the profile into its
// household in one transaction.
func (s *InvitationStore) Accept(ctx context.Context, id, profileID string) (*model.Invitation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var householdID string
	err = tx.QueryRowContext(ctx,
		`UPDATE household_invitations SET status = ?, responded_at = ?
		 WHERE id = ? AND status = ? RETURNING household_id`,
		string(model.InvitationAccepted), now, id, string(model.InvitationPending),
	).Scan(&householdID)
	if err == sql.ErrNoRows {
		return nil, ErrInvitationNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET household_id = ?, updated_at = ? WHERE id = ?`,
		householdID, now, profileID,
	); err != nil {
		return nil, fmt.Errorf("join household: %w", err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+invitationCols+` FROM household_invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accept: %w", err)
	}
	return inv, nil
}

func (s *InvitationStore) Reject(ctx context.Context, id string) (*model.Invitation, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE household_invitations SET status = ?, responded_at = ? WHERE id = ? AND status = ?`,
		string(model.InvitationRejected), time.Now().UTC(), id, string(model.InvitationPending),
	)
	if err != nil {
		return nil, fmt.Errorf("reject invitation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrInvitationNotPending
	}
	return s.GetByID(ctx, id)
}
