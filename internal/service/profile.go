package service

import (
	"context"
	"slices"
	"strings"

	"github.com/dukerupert/homehub/internal/model"
)

// SettingsPatch carries the profile fields a user may edit. Nil fields are
// left unchanged.
type SettingsPatch struct {
	FullName      *string `json:"full_name"`
	Role          *string `json:"role"`
	AvatarURL     *string `json:"avatar_url"`
	Theme         *string `json:"theme"`
	Notifications *string `json:"notifications"`
}

func (s *Service) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, backend(err)
	}
	if p == nil {
		return nil, notFound("profile")
	}
	return p, nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*model.Profile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		p.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.Role != nil {
		p.Role = model.RoleOrDefault(strings.TrimSpace(*patch.Role))
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.Theme != nil {
		if !model.ValidTheme(*patch.Theme) {
			return nil, invalid("theme must be light, dark or system")
		}
		p.Theme = *patch.Theme
	}
	if patch.Notifications != nil {
		if !model.ValidNotifications(*patch.Notifications) {
			return nil, invalid("notifications must be all, important or none")
		}
		p.Notifications = *patch.Notifications
	}

	updated, err := s.profiles.UpdateSettings(ctx, p)
	if err != nil {
		return nil, backend(err)
	}
	return updated, nil
}

// Members lists the household's members with display names filled in.
func (s *Service) Members(ctx context.Context, householdID string) ([]model.Member, error) {
	profiles, err := s.profiles.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}

	members := make([]model.Member, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, model.MemberFromProfile(p))
	}
	return members, nil
}

// Leaderboard returns members ordered by points, highest first. Ties keep
// join order.
func (s *Service) Leaderboard(ctx context.Context, householdID string) ([]model.Member, error) {
	members, err := s.Members(ctx, householdID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(members, func(a, b model.Member) int {
		return b.Points - a.Points
	})
	return members, nil
}
