package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dukerupert/homehub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureHouseholdIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.SignUp(ctx, "alice@example.com", "correct-horse", "Alice")
	require.NoError(t, err)

	first, err := svc.EnsureHousehold(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.NotEmpty(t, first.Household.ID)
	assert.Equal(t, model.DefaultHouseholdName, first.Household.Name)

	second, err := svc.EnsureHousehold(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Household.ID, second.Household.ID)

	profile, err := svc.Profile(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.HouseholdID)
	assert.Equal(t, first.Household.ID, *profile.HouseholdID)
}

func TestEnsureHouseholdConcurrentFirstRequests(t *testing.T) {
	svc, db := newFileTestService(t)
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		p, err := svc.SignUp(ctx, fmt.Sprintf("user%d@example.com", round), "correct-horse", "")
		require.NoError(t, err)

		results := make([]*Resolution, 8)
		errs := make([]error, len(results))
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.EnsureHousehold(ctx, p.ID)
			}(i)
		}
		wg.Wait()

		created := 0
		for i, err := range errs {
			require.NoError(t, err, "round %d call %d", round, i)
			assert.Equal(t, results[0].Household.ID, results[i].Household.ID)
			if results[i].Created {
				created++
			}
		}
		assert.Equal(t, 1, created, "round %d", round)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM households WHERE created_by = ?`, p.ID).Scan(&n))
		assert.Equal(t, 1, n, "round %d", round)
	}
}

func TestEnsureHouseholdUnknownProfile(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EnsureHousehold(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureHouseholdDanglingReference(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p, h := newMember(t, svc, "alice@example.com", "Alice")
	_, err := db.Exec(`PRAGMA foreign_keys = OFF`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE profiles SET household_id = 'vanished' WHERE id = ?`, p.ID)
	require.NoError(t, err)
	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	res, err := svc.EnsureHousehold(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, res.Household.ID, "household created by the user is reused")
	assert.False(t, res.Created)
}

func TestRenameHousehold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p, h := newMember(t, svc, "alice@example.com", "Alice")

	renamed, err := svc.RenameHousehold(ctx, p.ID, "  The Smiths ")
	require.NoError(t, err)
	assert.Equal(t, h.ID, renamed.ID)
	assert.Equal(t, "The Smiths", renamed.Name)

	_, err = svc.RenameHousehold(ctx, p.ID, "   ")
	require.ErrorIs(t, err, ErrValidation)
}
