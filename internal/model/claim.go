package model

import (
	"fmt"
	"strings"
	"time"
)

// Claim is a user's assertion that an item belongs to them.
type Claim struct {
	ID         string     `json:"id"`
	ItemID     string     `json:"item_id"`
	ClaimantID string     `json:"claimant_id"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Claim statuses. Approved and rejected are terminal.
const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimRejected = "rejected"
)

// Resolution decisions.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Active reports whether the claim blocks another claim by the same claimant
// on the same item.
func (c Claim) Active() bool {
	return c.Status == ClaimPending || c.Status == ClaimApproved
}

// CanTransition reports whether a claim may move from one status to another.
func CanTransition(from, to string) bool {
	return from == ClaimPending && (to == ClaimApproved || to == ClaimRejected)
}

// StatusForDecision maps an owner's decision to the resulting claim status.
func StatusForDecision(decision string) (string, error) {
	switch decision {
	case DecisionApprove:
		return ClaimApproved, nil
	case DecisionReject:
		return ClaimRejected, nil
	}
	return "", fmt.Errorf("%w: decision must be %q or %q", ErrValidation, DecisionApprove, DecisionReject)
}

// NormalizeMessage trims a claim message and rejects an empty one.
func NormalizeMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}
	return msg, nil
}
