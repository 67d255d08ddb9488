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

// ErrInsufficientPoints is returned by Redeem when the member's balance no
// longer covers the cost at the time of the debit.
var ErrInsufficientPoints = errors.New("insufficient points")

type RewardStore struct {
	db *sql.DB
}

func NewRewardStore(db *sql.DB) *RewardStore {
	return &RewardStore{db: db}
}

// --- Reward methods ---

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	err := scanner.Scan(&r.ID, &r.HouseholdID, &r.Title, &r.Description, &r.PointsCost, &r.Icon, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const rewardCols = `id, household_id, title, description, points_cost, icon, created_at`

func (s *RewardStore) Create(ctx context.Context, r model.Reward) (*model.Reward, error) {
	r.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rewards (id, household_id, title, description, points_cost, icon, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.HouseholdID, r.Title, r.Description, r.PointsCost, r.Icon, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	return s.GetByID(ctx, r.HouseholdID, r.ID)
}

func (s *RewardStore) GetByID(ctx context.Context, householdID, id string) (*model.Reward, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+rewardCols+` FROM rewards WHERE id = ? AND household_id = ?`, id, householdID,
	)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

// List returns the household's rewards, cheapest first.
func (s *RewardStore) List(ctx context.Context, householdID string) ([]model.Reward, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+rewardCols+` FROM rewards WHERE household_id = ? ORDER BY points_cost ASC, title ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

func (s *RewardStore) Count(ctx context.Context, householdID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rewards WHERE household_id = ?`, householdID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rewards: %w", err)
	}
	return n, nil
}

// Delete removes a reward. Ledger entries that reference it are kept.
func (s *RewardStore) Delete(ctx context.Context, householdID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM rewards WHERE id = ? AND household_id = ?`, id, householdID,
	)
	if err != nil {
		return false, fmt.Errorf("delete reward: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// --- Redemption methods ---

// Redeem debits the reward's cost from the member and appends a ledger
// entry in one transaction. The debit only applies while the member is
// still in the household and holds enough points; otherwise
// ErrInsufficientPoints is returned and nothing is written.
func (s *RewardStore) Redeem(ctx context.Context, reward model.Reward, userID string) (*model.Redemption, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var balance int
	err = tx.QueryRowContext(ctx,
		`UPDATE profiles SET points = points - ?, updated_at = ?
		 WHERE id = ? AND household_id = ? AND points >= ?
		 RETURNING points`,
		reward.PointsCost, now, userID, reward.HouseholdID, reward.PointsCost,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, ErrInsufficientPoints
	}
	if err != nil {
		return nil, fmt.Errorf("debit points: %w", err)
	}

	entry := model.RedeemedReward{
		ID:          uuid.NewString(),
		HouseholdID: reward.HouseholdID,
		RewardID:    reward.ID,
		UserID:      userID,
		PointsSpent: reward.PointsCost,
		RedeemedAt:  now,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO redeemed_rewards (id, household_id, reward_id, user_id, points_spent, redeemed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.HouseholdID, entry.RewardID, entry.UserID, entry.PointsSpent, entry.RedeemedAt,
	); err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit redemption: %w", err)
	}
	return &model.Redemption{Entry: entry, Balance: balance}, nil
}

func scanRedeemedRewardView(scanner interface{ Scan(...any) error }) (*model.RedeemedRewardView, error) {
	var v model.RedeemedRewardView
	var title sql.NullString
	var cost sql.NullInt64
	var fullName, email, avatar sql.NullString

	err := scanner.Scan(
		&v.ID, &v.HouseholdID, &v.RewardID, &v.UserID, &v.PointsSpent, &v.RedeemedAt,
		&title, &cost, &fullName, &email, &avatar,
	)
	if err != nil {
		return nil, err
	}

	if title.Valid {
		v.RewardTitle = title.String
		v.PointsCost = int(cost.Int64)
	} else {
		v.RewardTitle = model.UnknownRewardTitle
	}
	if email.Valid {
		v.UserName = model.DisplayName(fullName.String, email.String)
		v.UserAvatar = avatar.String
	} else {
		v.UserName = model.UnknownUserName
	}
	return &v, nil
}

// ListRedeemed returns the household's redemption history, newest first.
// Entries whose reward or profile has gone away are filled with placeholder
// values rather than dropped.
func (s *RewardStore) ListRedeemed(ctx context.Context, householdID string) ([]model.RedeemedRewardView, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rr.id, rr.household_id, rr.reward_id, rr.user_id, rr.points_spent, rr.redeemed_at,
		        r.title, r.points_cost, p.full_name, p.email, p.avatar_url
		 FROM redeemed_rewards rr
		 LEFT JOIN rewards r ON r.id = rr.reward_id
		 LEFT JOIN profiles p ON p.id = rr.user_id
		 WHERE rr.household_id = ?
		 ORDER BY rr.redeemed_at DESC, rr.rowid DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list redeemed rewards: %w", err)
	}
	defer rows.Close()

	var views []model.RedeemedRewardView
	for rows.Next() {
		v, err := scanRedeemedRewardView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redeemed reward: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}
