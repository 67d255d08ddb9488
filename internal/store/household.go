package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/google/uuid"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const householdCols = `id, name, created_by, created_at, updated_at`

func (s *HouseholdStore) GetByID(ctx context.Context, id string) (*model.Household, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) Rename(ctx context.Context, id, name string) (*model.Household, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE households SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	return s.GetByID(ctx, id)
}

// EnsureForProfile returns the household the profile belongs to, linking it
// to one first if needed. A household previously created by the profile is
// reused before a new one is made. All reads and writes share a single
// transaction, so the profile is never left pointing at nothing. The
// returned flag is true when a new household row was inserted. A nil
// household with a nil error means the profile does not exist.
func (s *HouseholdStore) EnsureForProfile(ctx context.Context, profileID string) (*model.Household, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var linked sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT household_id FROM profiles WHERE id = ?`, profileID).Scan(&linked)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get profile household: %w", err)
	}

	if linked.Valid {
		row := tx.QueryRowContext(ctx, `SELECT `+householdCols+` FROM households WHERE id = ?`, linked.String)
		h, err := scanHousehold(row)
		if err == nil {
			return h, false, nil
		}
		if err != sql.ErrNoRows {
			return nil, false, fmt.Errorf("get linked household: %w", err)
		}
		// Dangling reference; fall through and resolve again.
	}

	created := false
	row := tx.QueryRowContext(ctx,
		`SELECT `+householdCols+` FROM households WHERE created_by = ? ORDER BY created_at ASC, rowid ASC LIMIT 1`,
		profileID,
	)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		h = &model.Household{
			ID:        uuid.NewString(),
			Name:      model.DefaultHouseholdName,
			CreatedBy: profileID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO households (id, name, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.CreatedBy, h.CreatedAt, h.UpdatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("insert household: %w", err)
		}
		created = true
	} else if err != nil {
		return nil, false, fmt.Errorf("find created household: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET household_id = ?, updated_at = ? WHERE id = ?`,
		h.ID, time.Now().UTC(), profileID,
	); err != nil {
		return nil, false, fmt.Errorf("link profile household: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit household: %w", err)
	}
	return h, created, nil
}
