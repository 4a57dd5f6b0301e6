package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateClaim(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	item := mustItem(t, s, "alice")

	c, err := s.Claims().Create(ctx, item.ID, "bob", "  this is mine ")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimPending, c.Status)
	assert.Equal(t, "this is mine", c.Message)
	assert.Nil(t, c.ResolvedAt)

	got, err := s.Claims().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "bob", got.ClaimantID)
}

func TestCreateClaimErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	item := mustItem(t, s, "alice")

	_, err := s.Claims().Create(ctx, item.ID, "bob", "   ")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Claims().Create(ctx, "missing", "bob", "mine")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.Claims().Create(ctx, item.ID, "ghost", "mine")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestActiveClaimUniqueIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	item := mustItem(t, s, "alice")

	first, err := s.Claims().Create(ctx, item.ID, "bob", "mine")
	require.NoError(t, err)

	_, err = s.Claims().Create(ctx, item.ID, "bob", "really mine")
	assert.ErrorIs(t, err, model.ErrConflict)

	// A rejected claim no longer blocks resubmission.
	_, err = s.Claims().SetStatus(ctx, first.ID, model.ClaimRejected)
	require.NoError(t, err)

	_, err = s.Claims().Create(ctx, item.ID, "bob", "mine, with receipt")
	assert.NoError(t, err)
}

func TestSetStatusTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	item := mustItem(t, s, "alice")

	c, err := s.Claims().Create(ctx, item.ID, "bob", "mine")
	require.NoError(t, err)

	_, err = s.Claims().SetStatus(ctx, c.ID, model.ClaimPending)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	approved, err := s.Claims().SetStatus(ctx, c.ID, model.ClaimApproved)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimApproved, approved.Status)
	assert.NotNil(t, approved.ResolvedAt)

	_, err = s.Claims().SetStatus(ctx, c.ID, model.ClaimRejected)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = s.Claims().SetStatus(ctx, c.ID, model.ClaimApproved)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = s.Claims().SetStatus(ctx, "missing", model.ClaimApproved)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSecondApprovalOnItemConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	mustUser(t, s, "carol", "Carol")
	item := mustItem(t, s, "alice")

	b, err := s.Claims().Create(ctx, item.ID, "bob", "mine")
	require.NoError(t, err)
	c, err := s.Claims().Create(ctx, item.ID, "carol", "no, mine")
	require.NoError(t, err)

	_, err = s.Claims().SetStatus(ctx, b.ID, model.ClaimApproved)
	require.NoError(t, err)

	_, err = s.Claims().SetStatus(ctx, c.ID, model.ClaimApproved)
	assert.ErrorIs(t, err, model.ErrConflict)

	resolved, err := s.Claims().ItemResolved(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, resolved)
}

func TestClaimLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")
	mustUser(t, s, "bob", "Bob")
	mustUser(t, s, "carol", "Carol")
	watch := mustItem(t, s, "alice")
	phone := mustItem(t, s, "alice")

	_, err := s.Claims().Create(ctx, watch.ID, "bob", "mine")
	require.NoError(t, err)
	_, err = s.Claims().Create(ctx, watch.ID, "carol", "mine")
	require.NoError(t, err)
	_, err = s.Claims().Create(ctx, phone.ID, "bob", "also mine")
	require.NoError(t, err)

	byItem, err := Collect(s.Claims().ByItem(ctx, watch.ID))
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, "bob", byItem[0].ClaimantID)
	assert.Equal(t, "carol", byItem[1].ClaimantID)

	byUser, err := Collect(s.Claims().ByUser(ctx, "bob"))
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, phone.ID, byUser[0].ItemID, "newest claim first")

	active, err := s.Claims().HasActiveClaim(ctx, watch.ID, "carol")
	require.NoError(t, err)
	assert.True(t, active)

	active, err = s.Claims().HasActiveClaim(ctx, phone.ID, "carol")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustUser(t, s, "alice", "Alice")

	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.Items.Create(ctx, "alice", watchFields()); err != nil {
			return err
		}
		return model.ErrConflict
	})
	assert.ErrorIs(t, err, model.ErrConflict)

	items, err := Collect(s.Items().List(ctx, ItemFilter{}))
	require.NoError(t, err)
	assert.Empty(t, items)
}
