package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// UserDirectory holds the users known from the identity provider.
type UserDirectory struct {
	q   Querier
	now func() time.Time
}

// Register records a user the first time their identity-provider ID is
// seen. A known user is returned unchanged, so profile edits made here are not
// overwritten by later tokens.
func (d *UserDirectory) Register(ctx context.Context, id string, p model.Profile) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrValidation)
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := d.now()
	_, err := d.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		id, p.Name, p.Email, nullString(p.Phone), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	return d.Get(ctx, id)
}

// Get returns a user by ID.
func (d *UserDirectory) Get(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	var phone sql.NullString
	err := d.q.QueryRowContext(ctx,
		`SELECT id, name, email, phone, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &phone, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Phone = stringPtr(phone)
	return u, nil
}

// UpdateProfile replaces a known user's contact details.
func (d *UserDirectory) UpdateProfile(ctx context.Context, id string, p model.Profile) (*model.User, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	result, err := d.q.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Email, nullString(p.Phone), d.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}

	return d.Get(ctx, id)
}

func userExists(ctx context.Context, q Querier, id string) error {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	return nil
}
