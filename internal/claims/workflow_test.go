package claims

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

type fixture struct {
	store    *store.Store
	workflow *Workflow
	item     *model.Item
}

// setup registers alice, bob and carol and a found item reported by alice.
func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	s := store.New(db.NewTestDB(t))
	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := s.Users().Register(ctx, id, model.Profile{Name: id, Email: id + "@example.com"})
		require.NoError(t, err)
	}

	item, err := s.Items().Create(ctx, "alice", model.ItemFields{
		Title:       "iPhone 13",
		Description: "Black iPhone 13 with red case",
		Category:    model.CategoryElectronics,
		Disposition: model.DispositionFound,
		Date:        time.Date(2023, 4, 18, 0, 0, 0, 0, time.UTC),
		Location:    "Coffee Shop on Main St",
	})
	require.NoError(t, err)

	w := &Workflow{Store: s, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	return &fixture{store: s, workflow: w, item: item}
}

func TestApproveThenOthersConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	claim, err := f.workflow.Submit(ctx, "bob", f.item.ID, "this is mine")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimPending, claim.Status)

	approved, err := f.workflow.Resolve(ctx, "alice", claim.ID, model.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimApproved, approved.Status)

	_, err = f.workflow.Submit(ctx, "carol", f.item.ID, "no, it is mine")
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = f.workflow.Submit(ctx, "bob", f.item.ID, "mine again")
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestOwnerCannotClaimOwnItem(t *testing.T) {
	f := setup(t)

	_, err := f.workflow.Submit(context.Background(), "alice", f.item.ID, "mine")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSubmitErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.workflow.Submit(ctx, "bob", "missing", "mine")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.workflow.Submit(ctx, "bob", f.item.ID, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)

	_, err = f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	assert.ErrorIs(t, err, model.ErrConflict, "resubmission must not duplicate a pending claim")
}

func TestRejectedClaimantMayResubmit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)

	_, err = f.workflow.Resolve(ctx, "alice", first.ID, model.DecisionReject)
	require.NoError(t, err)

	second, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine, here is the receipt")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, model.ClaimPending, second.Status)
}

func TestResolveErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	claim, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)

	_, err = f.workflow.Resolve(ctx, "alice", "missing", model.DecisionApprove)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.workflow.Resolve(ctx, "bob", claim.ID, model.DecisionApprove)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.workflow.Resolve(ctx, "carol", claim.ID, model.DecisionReject)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.workflow.Resolve(ctx, "alice", claim.ID, "maybe")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.workflow.Resolve(ctx, "alice", claim.ID, model.DecisionReject)
	require.NoError(t, err)

	_, err = f.workflow.Resolve(ctx, "alice", claim.ID, model.DecisionApprove)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = f.workflow.Resolve(ctx, "alice", claim.ID, model.DecisionReject)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestApprovalLeavesOtherPendingClaims(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	bob, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)
	carol, err := f.workflow.Submit(ctx, "carol", f.item.ID, "mine")
	require.NoError(t, err)

	_, err = f.workflow.Resolve(ctx, "alice", bob.ID, model.DecisionApprove)
	require.NoError(t, err)

	got, err := f.workflow.Get(ctx, "carol", carol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimPending, got.Status)

	// The owner may still reject it explicitly.
	rejected, err := f.workflow.Resolve(ctx, "alice", carol.ID, model.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimRejected, rejected.Status)
}

func TestListByItemOwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)
	_, err = f.workflow.Submit(ctx, "carol", f.item.ID, "mine")
	require.NoError(t, err)

	list, err := f.workflow.ListByItem(ctx, "alice", f.item.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.workflow.ListByItem(ctx, "bob", f.item.ID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.workflow.ListByItem(ctx, "alice", "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListByUserScopedToActor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)

	bobs, err := f.workflow.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 1)

	carols, err := f.workflow.ListByUser(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, carols)
}

func TestGetVisibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	claim, err := f.workflow.Submit(ctx, "bob", f.item.ID, "mine")
	require.NoError(t, err)

	_, err = f.workflow.Get(ctx, "bob", claim.ID)
	assert.NoError(t, err)

	_, err = f.workflow.Get(ctx, "alice", claim.ID)
	assert.NoError(t, err)

	_, err = f.workflow.Get(ctx, "carol", claim.ID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestConcurrentSubmitYieldsOneClaim(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = f.workflow.Submit(ctx, "bob", f.item.ID, "this is mine")
		}()
	}
	close(start)
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrConflict):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	claims, err := f.workflow.ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, claims, 1)
}
