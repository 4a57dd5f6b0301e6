// Package claims runs the claim lifecycle: submitting a claim on someone
// else's report and the owner approving or rejecting it.
//
// Per item and claimant a claim moves NoClaim -> pending -> approved|rejected.
// A rejected claimant may submit again. Once any claim on an item is approved
// the item is resolved and accepts no further claims. Approving one claim does
// not touch other pending claims on the same item.
package claims

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
	"github.com/erazemk/najdeno/internal/store"
)

// Workflow orchestrates claim creation and resolution.
type Workflow struct {
	Store *store.Store
	Log   *slog.Logger
}

// New returns a Workflow over s that logs to the default logger.
func New(s *store.Store) *Workflow {
	return &Workflow{Store: s, Log: slog.Default()}
}

// Submit files a claim by actorID on itemID. The checks and the insert run in
// one immediate transaction, so two concurrent submissions for the same item
// and claimant produce exactly one claim and one model.ErrConflict.
func (w *Workflow) Submit(ctx context.Context, actorID, itemID, message string) (*model.Claim, error) {
	var claim *model.Claim
	err := w.Store.InTx(ctx, func(tx *store.Tx) error {
		item, err := tx.Items.Get(ctx, itemID)
		if err != nil {
			return err
		}

		if !policy.CanSubmitClaim(actorID, item) {
			w.Log.Warn("claim rejected by policy", "action", "submit", "actor", actorID, "item", itemID)
			return fmt.Errorf("%w: owners cannot claim their own items", model.ErrUnauthorized)
		}

		resolved, err := tx.Claims.ItemResolved(ctx, itemID)
		if err != nil {
			return err
		}
		if resolved {
			return fmt.Errorf("%w: item %s is already resolved", model.ErrConflict, itemID)
		}

		active, err := tx.Claims.HasActiveClaim(ctx, itemID, actorID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: user %s already has an active claim on item %s", model.ErrConflict, actorID, itemID)
		}

		claim, err = tx.Claims.Create(ctx, itemID, actorID, message)
		return err
	})
	if err != nil {
		return nil, err
	}

	w.Log.Info("claim submitted", "claim", claim.ID, "item", claim.ItemID, "claimant", claim.ClaimantID)
	return claim, nil
}

// Resolve applies the item owner's decision (model.DecisionApprove or
// model.DecisionReject) to a pending claim.
func (w *Workflow) Resolve(ctx context.Context, actorID, claimID, decision string) (*model.Claim, error) {
	status, err := model.StatusForDecision(decision)
	if err != nil {
		return nil, err
	}

	var claim *model.Claim
	err = w.Store.InTx(ctx, func(tx *store.Tx) error {
		current, err := tx.Claims.Get(ctx, claimID)
		if err != nil {
			return err
		}
		item, err := tx.Items.Get(ctx, current.ItemID)
		if err != nil {
			return err
		}

		if !policy.CanResolveClaim(actorID, item, current) {
			w.Log.Warn("claim rejected by policy", "action", "resolve", "actor", actorID, "claim", claimID)
			return fmt.Errorf("%w: only the item owner can resolve claims", model.ErrUnauthorized)
		}
		if !model.CanTransition(current.Status, status) {
			return fmt.Errorf("%w: claim %s is %s", model.ErrInvalidTransition, claimID, current.Status)
		}

		claim, err = tx.Claims.SetStatus(ctx, claimID, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	w.Log.Info("claim resolved", "claim", claim.ID, "item", claim.ItemID, "status", claim.Status, "actor", actorID)
	return claim, nil
}

// ListByItem returns the claims on an item. Only the item owner may see them.
func (w *Workflow) ListByItem(ctx context.Context, actorID, itemID string) ([]model.Claim, error) {
	item, err := w.Store.Items().Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewClaims(actorID, item) {
		return nil, fmt.Errorf("%w: only the item owner can list its claims", model.ErrUnauthorized)
	}
	return store.Collect(w.Store.Claims().ByItem(ctx, itemID))
}

// ListByUser returns the claims actorID has filed.
func (w *Workflow) ListByUser(ctx context.Context, actorID string) ([]model.Claim, error) {
	return store.Collect(w.Store.Claims().ByUser(ctx, actorID))
}

// Get returns a single claim to its claimant or to the owner of the claimed
// item.
func (w *Workflow) Get(ctx context.Context, actorID, claimID string) (*model.Claim, error) {
	claim, err := w.Store.Claims().Get(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if policy.CanViewOwnClaim(actorID, claim) {
		return claim, nil
	}

	item, err := w.Store.Items().Get(ctx, claim.ItemID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewClaims(actorID, item) {
		return nil, fmt.Errorf("%w: claim %s is not visible to %s", model.ErrUnauthorized, claimID, actorID)
	}
	return claim, nil
}
