package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/claims"
	"github.com/erazemk/najdeno/internal/store"
)

// NewRouter creates the API router with all endpoints registered. Every
// route requires an identity token signed with secret (and issued by issuer,
// when set).
func NewRouter(s *store.Store, secret, issuer string) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{Store: s}
	claimsHandler := &ClaimsHandler{Workflow: claims.New(s)}
	usersHandler := &UsersHandler{Store: s}

	authMW := AuthMiddleware(secret, issuer, s.Users)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMW(h))
	}

	// Items.
	handle("POST /api/items", itemsHandler.Create)
	handle("GET /api/items", itemsHandler.List)
	handle("GET /api/items/{id}", itemsHandler.Get)
	handle("PUT /api/items/{id}", itemsHandler.Update)

	// Claims.
	handle("POST /api/items/{id}/claims", claimsHandler.Submit)
	handle("GET /api/items/{id}/claims", claimsHandler.ListByItem)
	handle("GET /api/claims", claimsHandler.ListMine)
	handle("GET /api/claims/{id}", claimsHandler.Get)
	handle("POST /api/claims/{id}/resolve", claimsHandler.Resolve)

	// Own profile.
	handle("GET /api/me", usersHandler.Me)
	handle("PUT /api/me", usersHandler.UpdateMe)

	return mux
}
