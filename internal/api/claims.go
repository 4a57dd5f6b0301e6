package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/claims"
)

// ClaimsHandler handles claim submission and resolution endpoints.
type ClaimsHandler struct {
	Workflow *claims.Workflow
}

type submitClaimRequest struct {
	Message string `json:"message"`
}

type resolveClaimRequest struct {
	Decision string `json:"decision"`
}

// Submit handles POST /api/items/{id}/claims.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitClaimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.Workflow.Submit(r.Context(), Actor(r.Context()), r.PathValue("id"), req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, claim)
}

// ListByItem handles GET /api/items/{id}/claims. Only the item owner may list.
func (h *ClaimsHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	list, err := h.Workflow.ListByItem(r.Context(), Actor(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// ListMine handles GET /api/claims.
func (h *ClaimsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.Workflow.ListByUser(r.Context(), Actor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

// Get handles GET /api/claims/{id}.
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claim, err := h.Workflow.Get(r.Context(), Actor(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}

// Resolve handles POST /api/claims/{id}/resolve.
func (h *ClaimsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveClaimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claim, err := h.Workflow.Resolve(r.Context(), Actor(r.Context()), r.PathValue("id"), req.Decision)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}
