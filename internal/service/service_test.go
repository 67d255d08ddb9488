package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/dukerupert/homehub/internal/database"
	"github.com/dukerupert/homehub/internal/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	configured bool
	err        error
	sent       []string
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) SendInvitation(_ context.Context, toEmail, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *sql.DB) {
	t.Helper()
	return newServiceAt(t, ":memory:", opts...)
}

// newFileTestService uses an on-disk database so concurrent calls run on
// separate connections.
func newFileTestService(t *testing.T, opts ...Option) (*Service, *sql.DB) {
	t.Helper()
	return newServiceAt(t, filepath.Join(t.TempDir(), "homehub.db"), opts...)
}

func newServiceAt(t *testing.T, path string, opts ...Option) (*Service, *sql.DB) {
	t.Helper()
	db, err := database.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return New(db, logger, opts...), db
}

// newMember signs up a user and resolves their household.
func newMember(t *testing.T, svc *Service, email, name string) (*model.Profile, model.Household) {
	t.Helper()
	ctx := context.Background()
	p, err := svc.SignUp(ctx, email, "correct-horse", name)
	require.NoError(t, err)
	res, err := svc.EnsureHousehold(ctx, p.ID)
	require.NoError(t, err)
	return p, res.Household
}

// joinHousehold invites email into owner's household and accepts for user.
func joinHousehold(t *testing.T, svc *Service, owner, user *model.Profile) {
	t.Helper()
	ctx := context.Background()
	inv, err := svc.Invite(ctx, owner.ID, user.Email)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, inv.ID, user.ID)
	require.NoError(t, err)
}

func setPoints(t *testing.T, db *sql.DB, profileID string, points int) {
	t.Helper()
	_, err := db.Exec(`UPDATE profiles SET points = ? WHERE id = ?`, points, profileID)
	require.NoError(t, err)
}

func TestErrorKinds(t *testing.T) {
	err := invalid("title is required")
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "invalid input: title is required", err.Error())

	cause := errors.New("disk I/O error")
	err = backend(cause)
	require.ErrorIs(t, err, ErrBackendUnavailable)
	require.ErrorIs(t, err, cause)

	require.ErrorIs(t, notFound("task"), ErrNotFound)
}
