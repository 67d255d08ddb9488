package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/dukerupert/homehub/internal/store"
)

func normalizeEmail(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", invalid("email is required")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return "", invalid("email address is not valid")
	}
	return v, nil
}

// Invite asks toEmail to join the inviter's household. An identical pending
// invitation is returned as-is. When the invitation is stored but the email
// cannot be sent, the invitation is returned along with ErrPartialFailure.
func (s *Service) Invite(ctx context.Context, fromUserID, toEmail string) (*model.Invitation, error) {
	to, err := normalizeEmail(toEmail)
	if err != nil {
		return nil, err
	}

	inviter, err := s.profiles.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, backend(err)
	}
	if inviter == nil {
		return nil, notFound("profile")
	}

	res, err := s.EnsureHousehold(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	household := res.Household

	member, err := s.profiles.EmailInHousehold(ctx, household.ID, to)
	if err != nil {
		return nil, backend(err)
	}
	if member {
		return nil, invalid("%s is already a member of this household", to)
	}

	existing, err := s.invitations.FindPending(ctx, household.ID, to)
	if err != nil {
		return nil, backend(err)
	}
	if existing != nil {
		return existing, nil
	}

	inv, err := s.invitations.Create(ctx, model.Invitation{
		FromUserID:    inviter.ID,
		FromUserName:  model.DisplayName(inviter.FullName, inviter.Email),
		ToEmail:       to,
		HouseholdID:   household.ID,
		HouseholdName: household.Name,
	})
	if err != nil {
		return nil, backend(err)
	}
	s.logger.Info("invitation created", "invitation_id", inv.ID, "household_id", household.ID)

	if s.mailer != nil && s.mailer.Configured() {
		if err := s.mailer.SendInvitation(ctx, to, inv.FromUserName, inv.HouseholdName); err != nil {
			s.logger.Warn("send invitation email", "invitation_id", inv.ID, "error", err)
			return inv, fmt.Errorf("%w: invitation saved but email not sent", ErrPartialFailure)
		}
	}
	return inv, nil
}

// PendingInvitations lists open invitations addressed to the user's email.
func (s *Service) PendingInvitations(ctx context.Context, userID string) ([]model.Invitation, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.InvitationsForEmail(ctx, p.Email)
}

// InvitationsForEmail lists open invitations addressed to email.
func (s *Service) InvitationsForEmail(ctx context.Context, email string) ([]model.Invitation, error) {
	invitations, err := s.invitations.ListPendingForEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, backend(err)
	}
	if invitations == nil {
		invitations = []model.Invitation{}
	}
	return invitations, nil
}

// SentInvitations lists every invitation sent into the household.
func (s *Service) SentInvitations(ctx context.Context, householdID string) ([]model.Invitation, error) {
	invitations, err := s.invitations.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, backend(err)
	}
	if invitations == nil {
		invitations = []model.Invitation{}
	}
	return invitations, nil
}

// invitationFor loads an invitation and checks it is addressed to the user.
func (s *Service) invitationFor(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, backend(err)
	}
	if inv == nil {
		return nil, notFound("invitation")
	}

	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(p.Email, inv.ToEmail) {
		return nil, fmt.Errorf("%w: invitation is addressed to another user", ErrForbidden)
	}
	if inv.Status != model.InvitationPending {
		return nil, invalid("invitation has already been %s", inv.Status)
	}
	return inv, nil
}

// Accept joins the user to the invitation's household. The household switch
// and the status change are written together.
func (s *Service) Accept(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	if _, err := s.invitationFor(ctx, invitationID, userID); err != nil {
		return nil, err
	}

	inv, err := s.invitations.Accept(ctx, invitationID, userID)
	if errors.Is(err, store.ErrInvitationNotPending) {
		return nil, invalid("invitation has already been answered")
	}
	if err != nil {
		return nil, backend(err)
	}

	s.logger.Info("invitation accepted", "invitation_id", inv.ID, "household_id", inv.HouseholdID, "user_id", userID)
	return inv, nil
}

func (s *Service) Reject(ctx context.Context, invitationID, userID string) (*model.Invitation, error) {
	if _, err := s.invitationFor(ctx, invitationID, userID); err != nil {
		return nil, err
	}

	inv, err := s.invitations.Reject(ctx, invitationID)
	if errors.Is(err, store.ErrInvitationNotPending) {
		return nil, invalid("invitation has already been answered")
	}
	if err != nil {
		return nil, backend(err)
	}
	return inv, nil
}

// Leave detaches the user from their household. Points and completed-task
// counts go with the user.
func (s *Service) Leave(ctx context.Context, userID string) error {
	if _, err := s.Profile(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.ClearHousehold(ctx, userID); err != nil {
		return backend(err)
	}
	s.logger.Info("left household", "user_id", userID)
	return nil
}
