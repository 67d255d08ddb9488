package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/dukerupert/homehub/internal/store"
)

type RewardInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PointsCost  int    `json:"points_cost"`
	Icon        string `json:"icon"`
}

func (s *Service) CreateReward(ctx context.Context, householdID string, in RewardInput) (*model.Reward, error) {
	r := model.Reward{
		HouseholdID: householdID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PointsCost:  in.PointsCost,
		Icon:        strings.TrimSpace(in.Icon),
	}
	if r.Title == "" {
		return nil, invalid("title is required")
	}
	if r.PointsCost <= 0 {
		return nil, invalid("points cost must be positive")
	}

	created, err := s.rewards.Create(ctx, r)
	if err != nil {
		return nil, backend(err)
	}
	return created, nil
}

func (s *Service) ListRewards(ctx context.Context, householdID string) ([]model.Reward, error) {
	rewards, err := s.rewards.List(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}
	if rewards == nil {
		rewards = []model.Reward{}
	}
	return rewards, nil
}

// DeleteReward removes a reward definition. Its redemption history stays.
func (s *Service) DeleteReward(ctx context.Context, householdID, rewardID string) error {
	ok, err := s.rewards.Delete(ctx, householdID, rewardID)
	if err != nil {
		return backend(err)
	}
	if !ok {
		return notFound("reward")
	}
	return nil
}

// Redeem spends a member's points on a reward. The reward and member must
// both belong to the household and the member must hold at least the
// reward's cost. On any failure nothing is written.
func (s *Service) Redeem(ctx context.Context, householdID, rewardID, memberID string) (*model.Redemption, error) {
	reward, err := s.rewards.GetByID(ctx, householdID, rewardID)
	if err != nil {
		return nil, backend(err)
	}
	if reward == nil {
		return nil, notFound("reward")
	}

	member, err := s.profiles.GetByID(ctx, memberID)
	if err != nil {
		return nil, backend(err)
	}
	if member == nil || member.HouseholdID == nil || *member.HouseholdID != householdID {
		return nil, notFound("member")
	}
	if member.Points < reward.PointsCost {
		return nil, ErrInsufficientFunds
	}

	redemption, err := s.rewards.Redeem(ctx, *reward, memberID)
	if errors.Is(err, store.ErrInsufficientPoints) {
		// The balance changed between the check and the debit.
		return nil, ErrInsufficientFunds
	}
	if err != nil {
		return nil, backend(err)
	}

	s.logger.Info("reward redeemed",
		"reward_id", reward.ID, "profile_id", memberID, "cost", reward.PointsCost, "balance", redemption.Balance)
	return redemption, nil
}

// ListRedeemed returns the household's redemption history, newest first.
func (s *Service) ListRedeemed(ctx context.Context, householdID string) ([]model.RedeemedRewardView, error) {
	views, err := s.rewards.ListRedeemed(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}
	if views == nil {
		views = []model.RedeemedRewardView{}
	}
	return views, nil
}
