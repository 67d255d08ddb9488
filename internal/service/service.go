// Package service holds HomeHub's household rules: household resolution,
// tasks and their points payout, the weekly scheduler, the rewards ledger,
// membership and invitations, and authentication.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dukerupert/homehub/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 30 * 24 * time.Hour
	MinPasswordLength = 8
	UpcomingLimit     = 5
)

// Mailer delivers invitation emails. *email.Client satisfies it.
type Mailer interface {
	Configured() bool
	SendInvitation(ctx context.Context, toEmail, inviterName, householdName string) error
}

type Service struct {
	profiles    *store.ProfileStore
	households  *store.HouseholdStore
	tasks       *store.TaskStore
	schedule    *store.ScheduledTaskStore
	rewards     *store.RewardStore
	invitations *store.InvitationStore
	sessions    *store.SessionStore

	mailer     Mailer
	logger     *slog.Logger
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

type Option func(*Service)

func WithMailer(m Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) {
		s.sessionTTL = d
	}
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// WithClock replaces time.Now for date-relative views.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(db *sql.DB, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		profiles:    store.NewProfileStore(db),
		households:  store.NewHouseholdStore(db),
		tasks:       store.NewTaskStore(db),
		schedule:    store.NewScheduledTaskStore(db),
		rewards:     store.NewRewardStore(db),
		invitations: store.NewInvitationStore(db),
		sessions:    store.NewSessionStore(db),
		logger:      logger,
		sessionTTL:  DefaultSessionTTL,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
