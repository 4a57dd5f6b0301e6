// Package catalog filters and orders item reports for listing and search.
package catalog

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// Sort keys.
const (
	SortDate     = "date"
	SortTitle    = "title"
	SortCategory = "category"
)

// Query selects items for Search. Empty fields match everything.
type Query struct {
	// Text matches case-insensitively against title, description, location
	// and category.
	Text string
	// Category matches the item category, ignoring case.
	Category string
	// Status matches the item disposition (lost or found).
	Status string
}

// Search returns the items matching q, preserving their order.
func Search(items []model.Item, q Query) []model.Item {
	m := newMatcher(q)
	out := []model.Item{}
	for _, item := range items {
		if m.match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Sort returns a sorted copy of items. Date sorts newest report first; title
// and category sort ascending. Ties fall back to the oldest report first, then
// to the ID.
func Sort(items []model.Item, key string) ([]model.Item, error) {
	var primary func(a, b model.Item) int

	switch key {
	case SortDate, "":
		primary = func(a, b model.Item) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortTitle:
		c := collate.New(language.Und)
		primary = func(a, b model.Item) int { return c.CompareString(a.Title, b.Title) }
	case SortCategory:
		c := collate.New(language.Und)
		primary = func(a, b model.Item) int { return c.CompareString(a.Category, b.Category) }
	default:
		return nil, fmt.Errorf("%w: unknown sort key %q", model.ErrValidation, key)
	}

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.Item) int {
		if n := primary(a, b); n != 0 {
			return n
		}
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Lister is the read side of the item registry.
type Lister interface {
	List(ctx context.Context, filter store.ItemFilter) iter.Seq2[model.Item, error]
}

// List streams the registry's items through filter and q, then sorts them by
// sortKey.
func List(ctx context.Context, items Lister, filter store.ItemFilter, q Query, sortKey string) ([]model.Item, error) {
	m := newMatcher(q)
	matched := []model.Item{}
	for item, err := range items.List(ctx, filter) {
		if err != nil {
			return nil, err
		}
		if m.match(item) {
			matched = append(matched, item)
		}
	}
	return Sort(matched, sortKey)
}

type matcher struct {
	fold     cases.Caser
	text     string
	category string
	status   string
}

func newMatcher(q Query) *matcher {
	fold := cases.Fold()
	return &matcher{
		fold:     fold,
		text:     fold.String(strings.TrimSpace(q.Text)),
		category: fold.String(strings.TrimSpace(q.Category)),
		status:   strings.TrimSpace(q.Status),
	}
}

func (m *matcher) match(item model.Item) bool {
	if m.status != "" && item.Disposition != m.status {
		return false
	}
	if m.category != "" && m.fold.String(item.Category) != m.category {
		return false
	}
	if m.text == "" {
		return true
	}
	for _, field := range []string{item.Title, item.Description, item.Location, item.Category} {
		if strings.Contains(m.fold.String(field), m.text) {
			return true
		}
	}
	return false
}
