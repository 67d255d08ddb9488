package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/google/uuid"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.Profile, error) {
	var p model.Profile
	var householdID sql.NullString

	err := scanner.Scan(
		&p.ID, &p.FullName, &p.Email, &p.Role, &p.Points, &p.CompletedTasks,
		&p.AvatarURL, &householdID, &p.Notifications, &p.Theme, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if householdID.Valid {
		p.HouseholdID = &householdID.String
	}
	return &p, nil
}

const profileCols = `id, full_name, email, role, points, completed_tasks, avatar_url, household_id, notifications, theme, created_at, updated_at`

// Create inserts a profile together with its password credential.
func (s *ProfileStore) Create(ctx context.Context, email, fullName, passwordHash string) (*model.Profile, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (id, full_name, email, role, notifications, theme, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fullName, email, model.DefaultRole, model.NotifyAll, model.ThemeLight, now, now,
	); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO credentials (profile_id, password_hash, created_at) VALUES (?, ?, ?)`,
		id, passwordHash, now,
	); err != nil {
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit profile: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileCols+` FROM profiles WHERE email = ?`, email)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

// PasswordHash returns the stored hash for a profile, or "" if it has none.
func (s *ProfileStore) PasswordHash(ctx context.Context, profileID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM credentials WHERE profile_id = ?`, profileID,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

func (s *ProfileStore) UpdateSettings(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET full_name = ?, role = ?, avatar_url = ?, notifications = ?, theme = ?, updated_at = ?
		 WHERE id = ?`,
		p.FullName, p.Role, p.AvatarURL, p.Notifications, p.Theme, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile settings: %w", err)
	}
	return s.GetByID(ctx, p.ID)
}

// ClearHousehold unlinks the profile from its household. Points and
// completion counts are kept.
func (s *ProfileStore) ClearHousehold(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET household_id = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("clear profile household: %w", err)
	}
	return nil
}

// ListByHousehold returns the household's profiles in join order.
func (s *ProfileStore) ListByHousehold(ctx context.Context, householdID string) ([]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileCols+` FROM profiles WHERE household_id = ? ORDER BY created_at ASC, rowid ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// IsMember reports whether the profile belongs to the household.
func (s *ProfileStore) IsMember(ctx context.Context, householdID, profileID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE id = ? AND household_id = ?`,
		profileID, householdID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return n > 0, nil
}

// EmailInHousehold reports whether a current member uses the given email.
func (s *ProfileStore) EmailInHousehold(ctx context.Context, householdID, email string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE household_id = ? AND email = ?`,
		householdID, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check member email: %w", err)
	}
	return n > 0, nil
}
