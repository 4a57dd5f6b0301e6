package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// UsersHandler serves the caller's own profile.
type UsersHandler struct {
	Store *store.Store
}

type updateProfileRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// Me handles GET /api/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.Users().Get(r.Context(), Actor(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Store.Users().UpdateProfile(r.Context(), Actor(r.Context()), model.Profile{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}
