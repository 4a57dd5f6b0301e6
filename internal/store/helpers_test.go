package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t))
}

func mustUser(t *testing.T, s *Store, id, name string) *model.User {
	t.Helper()
	u, err := s.Users().Register(context.Background(), id, model.Profile{Name: name, Email: id + "@example.com"})
	require.NoError(t, err)
	return u
}

func watchFields() model.ItemFields {
	return model.ItemFields{
		Title:       "Gold Watch",
		Description: "Vintage gold watch with leather strap",
		Category:    model.CategoryJewelry,
		Disposition: model.DispositionFound,
		Date:        time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
		Location:    "Central Park",
	}
}

func mustItem(t *testing.T, s *Store, ownerID string) *model.Item {
	t.Helper()
	item, err := s.Items().Create(context.Background(), ownerID, watchFields())
	require.NoError(t, err)
	return item
}
