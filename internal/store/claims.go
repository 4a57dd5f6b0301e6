package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// ClaimLedger owns claim records. It does not check who may claim or resolve;
// that needs the item owner and belongs to the claim workflow.
type ClaimLedger struct {
	q   Querier
	now func() time.Time
}

const claimColumns = `id, item_id, claimant_id, message, status, created_at, resolved_at`

// Create records a pending claim by claimantID on itemID. A second active
// claim for the same pair is rejected by the database with model.ErrConflict.
func (l *ClaimLedger) Create(ctx context.Context, itemID, claimantID, message string) (*model.Claim, error) {
	message, err := model.NormalizeMessage(message)
	if err != nil {
		return nil, err
	}

	var exists int
	err = l.q.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, itemID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s", model.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking item: %w", err)
	}
	if err := userExists(ctx, l.q, claimantID); err != nil {
		return nil, err
	}

	c := &model.Claim{
		ID:         newID(),
		ItemID:     itemID,
		ClaimantID: claimantID,
		Message:    message,
		Status:     model.ClaimPending,
		CreatedAt:  l.now(),
	}

	_, err = l.q.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, claimant_id, message, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ItemID, c.ClaimantID, c.Message, c.Status, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: user %s already has an active claim on item %s", model.ErrConflict, claimantID, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	return c, nil
}

// Get returns a claim by ID.
func (l *ClaimLedger) Get(ctx context.Context, id string) (*model.Claim, error) {
	c, err := scanClaim(l.q.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: claim %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return &c, nil
}

// ByItem returns the claims on an item, oldest first.
func (l *ClaimLedger) ByItem(ctx context.Context, itemID string) iter.Seq2[model.Claim, error] {
	return querySeq(ctx, l.q, "claims", scanClaim,
		`SELECT `+claimColumns+` FROM claims WHERE item_id = ? ORDER BY created_at, id`, itemID)
}

// ByUser returns the claims a user has filed, newest first.
func (l *ClaimLedger) ByUser(ctx context.Context, userID string) iter.Seq2[model.Claim, error] {
	return querySeq(ctx, l.q, "claims", scanClaim,
		`SELECT `+claimColumns+` FROM claims WHERE claimant_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

// SetStatus moves a pending claim to approved or rejected. The update only
// matches a pending row, so a claim is resolved at most once even under
// concurrent callers.
func (l *ClaimLedger) SetStatus(ctx context.Context, id, status string) (*model.Claim, error) {
	if !model.CanTransition(model.ClaimPending, status) {
		return nil, fmt.Errorf("%w: cannot set status %q", model.ErrInvalidTransition, status)
	}

	result, err := l.q.ExecContext(ctx,
		`UPDATE claims SET status = ?, resolved_at = ? WHERE id = ? AND status = ?`,
		status, l.now(), id, model.ClaimPending,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: item already has an approved claim", model.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("setting claim status: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("setting claim status: %w", err)
	}
	if n == 0 {
		current, err := l.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: claim %s is %s", model.ErrInvalidTransition, id, current.Status)
	}

	return l.Get(ctx, id)
}

// HasActiveClaim reports whether claimantID holds a pending or approved claim
// on itemID.
func (l *ClaimLedger) HasActiveClaim(ctx context.Context, itemID, claimantID string) (bool, error) {
	var count int
	err := l.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims
		 WHERE item_id = ? AND claimant_id = ? AND status IN (?, ?)`,
		itemID, claimantID, model.ClaimPending, model.ClaimApproved,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking active claims: %w", err)
	}
	return count > 0, nil
}

// ItemResolved reports whether any claim on itemID has been approved.
func (l *ClaimLedger) ItemResolved(ctx context.Context, itemID string) (bool, error) {
	var count int
	err := l.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM claims WHERE item_id = ? AND status = ?`,
		itemID, model.ClaimApproved,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking approved claims: %w", err)
	}
	return count > 0, nil
}

func scanClaim(s scanner) (model.Claim, error) {
	var c model.Claim
	var resolvedAt sql.NullTime
	err := s.Scan(&c.ID, &c.ItemID, &c.ClaimantID, &c.Message, &c.Status, &c.CreatedAt, &resolvedAt)
	if err != nil {
		return model.Claim{}, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		c.ResolvedAt = &t
	}
	return c, nil
}
