package service

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.SignUp(ctx, " Alice@Example.com ", "correct-horse", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.Equal(t, "Alice", p.FullName)
	assert.Equal(t, model.DefaultRole, p.Role)
	assert.Zero(t, p.Points)

	_, err = svc.SignUp(ctx, "alice@example.com", "another-pass", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.SignUp(ctx, "bob@example.com", "short", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.SignUp(ctx, "bob", "correct-horse", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "alice@example.com", "correct-horse", "Alice")
	require.NoError(t, err)

	sess, who, err := svc.Login(ctx, "ALICE@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, p.ID, who.ID)
	assert.Len(t, sess.Token, 64)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), sess.ExpiresAt, time.Minute)

	got, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.UserID)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Authenticate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "alice@example.com", "correct-horse", "Alice")
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, "alice@example.com", "battery-staple")
	_, _, unknown := svc.Login(ctx, "nobody@example.com", "correct-horse")

	require.ErrorIs(t, wrongPass, ErrUnauthorized)
	require.ErrorIs(t, unknown, ErrUnauthorized)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestCleanupSessions(t *testing.T) {
	svc, _ := newTestService(t, WithSessionTTL(-time.Minute))
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "alice@example.com", "correct-horse", "Alice")
	require.NoError(t, err)
	sess, err := svc.StartSession(ctx, p.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, sess.Token)
	require.ErrorIs(t, err, ErrUnauthorized)

	n, err := svc.CleanupSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
