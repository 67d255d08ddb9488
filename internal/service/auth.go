package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/homehub/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)

// SignUp registers a new user with a password. The profile starts with the
// default role and no points; a household is assigned on first use.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*model.Profile, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, invalid("password must be at least %d characters", MinPasswordLength)
	}

	existing, err := s.profiles.GetByEmail(ctx, addr)
	if err != nil {
		return nil, backend(err)
	}
	if existing != nil {
		return nil, invalid("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.profiles.Create(ctx, addr, strings.TrimSpace(fullName), string(hash))
	if err != nil {
		return nil, backend(err)
	}
	s.logger.Info("user signed up", "user_id", p.ID)
	return p, nil
}

// Login checks the password and opens a new session. Unknown emails and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.Profile, error) {
	addr := strings.ToLower(strings.TrimSpace(email))

	p, err := s.profiles.GetByEmail(ctx, addr)
	if err != nil {
		return nil, nil, backend(err)
	}
	if p == nil {
		return nil, nil, errBadCredentials
	}

	hash, err := s.profiles.PasswordHash(ctx, p.ID)
	if err != nil {
		return nil, nil, backend(err)
	}
	if hash == "" {
		return nil, nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, fmt.Errorf("compare password: %w", err)
	}

	sess, err := s.StartSession(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return sess, p, nil
}

func (s *Service) StartSession(ctx context.Context, userID string) (*model.Session, error) {
	sess, err := s.sessions.Create(ctx, userID, s.sessionTTL)
	if err != nil {
		return nil, backend(err)
	}
	return sess, nil
}

// Authenticate resolves a session token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing session", ErrUnauthorized)
	}
	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, backend(err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: session expired or invalid", ErrUnauthorized)
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return backend(err)
	}
	return nil
}

// CleanupSessions purges expired sessions.
func (s *Service) CleanupSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, backend(err)
	}
	return n, nil
}
