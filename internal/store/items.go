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

// ItemRegistry owns item records.
type ItemRegistry struct {
	q   Querier
	now func() time.Time
}

// ItemFilter narrows ListItems. Empty fields match everything.
type ItemFilter struct {
	OwnerID     string
	Disposition string
}

const itemColumns = `id, owner_id, title, description, category, disposition, date, location,
	image_ref, version, created_at, updated_at`

// Create stores a new report owned by ownerID.
func (r *ItemRegistry) Create(ctx context.Context, ownerID string, fields model.ItemFields) (*model.Item, error) {
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	if err := userExists(ctx, r.q, ownerID); err != nil {
		return nil, err
	}

	now := r.now()
	item := &model.Item{
		ID:          newID(),
		OwnerID:     ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Category:    fields.Category,
		Disposition: fields.Disposition,
		Date:        fields.Date.UTC(),
		Location:    fields.Location,
		ImageRef:    fields.ImageRef,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, item.Title, item.Description, item.Category, item.Disposition,
		item.Date, item.Location, nullString(item.ImageRef), item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return item, nil
}

// Get returns an item by ID.
func (r *ItemRegistry) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := scanItem(r.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// List returns the items matching filter. Order is unspecified; sort with
// the catalog package.
func (r *ItemRegistry) List(ctx context.Context, filter ItemFilter) iter.Seq2[model.Item, error] {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any

	if filter.OwnerID != "" {
		query += ` AND owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	if filter.Disposition != "" {
		query += ` AND disposition = ?`
		args = append(args, filter.Disposition)
	}

	return querySeq(ctx, r.q, "items", scanItem, query, args...)
}

// Update writes the editable fields of item if its stored version still
// equals item.Version, and bumps the version. A stale version yields
// model.ErrConflict.
func (r *ItemRegistry) Update(ctx context.Context, item model.Item) (*model.Item, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE items SET category = ?, description = ?, location = ?, image_ref = ?,
		        version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		item.Category, item.Description, item.Location, nullString(item.ImageRef),
		r.now(), item.ID, item.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		current, err := r.Get(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: item %s is at version %d, not %d", model.ErrConflict, item.ID, current.Version, item.Version)
	}

	return r.Get(ctx, item.ID)
}

func scanItem(s scanner) (model.Item, error) {
	var item model.Item
	var imageRef sql.NullString
	err := s.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
		&item.Disposition, &item.Date, &item.Location, &imageRef, &item.Version,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return model.Item{}, err
	}
	item.ImageRef = stringPtr(imageRef)
	return item, nil
}
