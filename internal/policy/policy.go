// Package policy decides whether an actor may act on an item or claim.
//
// Every check compares user IDs against current records; nothing is cached
// and no state is kept. Item ownership never changes, so a decision for an
// item stays valid for the item's lifetime.
package policy

import "github.com/erazemk/najdeno/internal/model"

// CanSubmitClaim reports whether actorID may claim item. Owners cannot claim
// their own reports.
func CanSubmitClaim(actorID string, item *model.Item) bool {
	return actorID != "" && item != nil && actorID != item.OwnerID
}

// CanViewClaims reports whether actorID may list the claims on item.
func CanViewClaims(actorID string, item *model.Item) bool {
	return isOwner(actorID, item)
}

// CanResolveClaim reports whether actorID may approve or reject claim.
func CanResolveClaim(actorID string, item *model.Item, claim *model.Claim) bool {
	return isOwner(actorID, item) && claim != nil && claim.ItemID == item.ID
}

// CanViewOwnClaim reports whether claim was filed by actorID.
func CanViewOwnClaim(actorID string, claim *model.Claim) bool {
	return actorID != "" && claim != nil && actorID == claim.ClaimantID
}

// CanEditItem reports whether actorID may edit item.
func CanEditItem(actorID string, item *model.Item) bool {
	return isOwner(actorID, item)
}

func isOwner(actorID string, item *model.Item) bool {
	return actorID != "" && item != nil && actorID == item.OwnerID
}
