package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/catalog"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/policy"
	"github.com/erazemk/najdeno/internal/store"
)

// ItemsHandler handles item report endpoints.
type ItemsHandler struct {
	Store *store.Store
}

type createItemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Disposition string  `json:"disposition"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	ImageRef    *string `json:"image_ref"`
}

type updateItemRequest struct {
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	ImageRef    *string `json:"image_ref"`
	ClearImage  bool    `json:"clear_image"`
	Version     int64   `json:"version"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", model.ErrValidation)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}
	return t.UTC(), nil
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	actor := Actor(r.Context())
	item, err := h.Store.Items().Create(r.Context(), actor, model.ItemFields{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Disposition: req.Disposition,
		Date:        date,
		Location:    req.Location,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item created", "item", item.ID, "owner", actor, "disposition", item.Disposition)
	jsonResponse(w, http.StatusCreated, item)
}

// List handles GET /api/items. Supported query parameters are owner,
// disposition, mine, q, category, status and sort.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter := store.ItemFilter{
		OwnerID:     params.Get("owner"),
		Disposition: params.Get("disposition"),
	}
	if params.Get("mine") == "true" {
		filter.OwnerID = Actor(r.Context())
	}
	if filter.Disposition != "" && !model.ValidDisposition(filter.Disposition) {
		jsonError(w, http.StatusBadRequest, "disposition must be lost or found")
		return
	}

	sortKey := params.Get("sort")
	if sortKey == "" {
		sortKey = catalog.SortDate
	}

	items, err := catalog.List(r.Context(), h.Store.Items(), filter, catalog.Query{
		Text:     params.Get("q"),
		Category: params.Get("category"),
		Status:   params.Get("status"),
	}, sortKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Store.Items().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. The request must carry the version the
// client last read; a stale version is a conflict.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := Actor(r.Context())
	id := r.PathValue("id")

	var updated *model.Item
	err := h.Store.InTx(r.Context(), func(tx *store.Tx) error {
		item, err := tx.Items.Get(r.Context(), id)
		if err != nil {
			return err
		}
		if !policy.CanEditItem(actor, item) {
			slog.Warn("item edit rejected by policy", "actor", actor, "item", id)
			return fmt.Errorf("%w: only the owner may edit an item", model.ErrUnauthorized)
		}
		if req.Version != 0 && req.Version != item.Version {
			return fmt.Errorf("%w: item %s was modified", model.ErrConflict, id)
		}

		edited, err := model.ItemEdit{
			Category:    req.Category,
			Description: req.Description,
			Location:    req.Location,
			ImageRef:    req.ImageRef,
			ClearImage:  req.ClearImage,
		}.Apply(*item)
		if err != nil {
			return err
		}

		updated, err = tx.Items.Update(r.Context(), edited)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}
