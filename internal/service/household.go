package service

import (
	"context"
	"strings"

	"github.com/dukerupert/homehub/internal/model"
)

// Resolution is the outcome of EnsureHousehold.
type Resolution struct {
	Household model.Household `json:"household"`
	Created   bool            `json:"created"`
}

// EnsureHousehold guarantees the user belongs to exactly one household and
// returns it. A user without one is linked to a household they created
// earlier, or to a new "My household". Calling it again returns the same
// household without writing anything.
func (s *Service) EnsureHousehold(ctx context.Context, userID string) (*Resolution, error) {
	h, created, err := s.households.EnsureForProfile(ctx, userID)
	if err != nil {
		return nil, backend(err)
	}
	if h == nil {
		return nil, notFound("profile")
	}
	if created {
		s.logger.Info("household created", "household_id", h.ID, "user_id", userID)
	}
	return &Resolution{Household: *h, Created: created}, nil
}

func (s *Service) Household(ctx context.Context, id string) (*model.Household, error) {
	h, err := s.households.GetByID(ctx, id)
	if err != nil {
		return nil, backend(err)
	}
	if h == nil {
		return nil, notFound("household")
	}
	return h, nil
}

// RenameHousehold renames the user's current household.
func (s *Service) RenameHousehold(ctx context.Context, userID, name string) (*model.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("household name is required")
	}

	res, err := s.EnsureHousehold(ctx, userID)
	if err != nil {
		return nil, err
	}

	h, err := s.households.Rename(ctx, res.Household.ID, name)
	if err != nil {
		return nil, backend(err)
	}
	return h, nil
}
