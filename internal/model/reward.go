package model

import "time"

const (
	UnknownRewardTitle = "Unknown reward"
	UnknownUserName    = "Unknown user"
)

type Reward struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PointsCost  int       `json:"points_cost"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

type RedeemedReward struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	RewardID    string    `json:"reward_id"`
	UserID      string    `json:"user_id"`
	PointsSpent int       `json:"points_spent"`
	RedeemedAt  time.Time `json:"redeemed_at"`
}

// RedeemedRewardView denormalizes a ledger entry with reward and profile
// snapshots. Missing joins are filled with placeholder values.
type RedeemedRewardView struct {
	RedeemedReward
	RewardTitle string `json:"reward_title"`
	PointsCost  int    `json:"points_cost"`
	UserName    string `json:"user_name"`
	UserAvatar  string `json:"user_avatar"`
}

// Redemption is the outcome of a successful redeem: the ledger entry and
// the member's balance after the debit.
type Redemption struct {
	Entry   RedeemedReward `json:"entry"`
	Balance int            `json:"balance"`
}
