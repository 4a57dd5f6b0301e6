package model

import (
	"fmt"
	"strings"
	"time"
)

// Item is a lost-or-found report. ID, OwnerID and Disposition never change
// after creation.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Disposition string    `json:"disposition"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	ImageRef    *string   `json:"image_ref,omitempty"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Dispositions.
const (
	DispositionLost  = "lost"
	DispositionFound = "found"
)

// Categories.
const (
	CategoryElectronics = "Electronics"
	CategoryJewelry     = "Jewelry"
	CategoryClothing    = "Clothing"
	CategoryDocuments   = "Documents"
	CategoryKeys        = "Keys"
	CategoryBags        = "Bags"
	CategoryOther       = "Other"
)

// Categories lists the accepted item categories in display order.
var Categories = []string{
	CategoryElectronics,
	CategoryJewelry,
	CategoryClothing,
	CategoryDocuments,
	CategoryKeys,
	CategoryBags,
	CategoryOther,
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidDisposition reports whether d is lost or found.
func ValidDisposition(d string) bool {
	return d == DispositionLost || d == DispositionFound
}

// ItemFields holds the owner-supplied fields of a new report.
type ItemFields struct {
	Title       string
	Description string
	Category    string
	Disposition string
	Date        time.Time
	Location    string
	ImageRef    *string
}

// Normalize trims surrounding whitespace from the free-text fields and drops
// an empty image reference.
func (f *ItemFields) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Location = strings.TrimSpace(f.Location)
	f.ImageRef = normalizeOptional(f.ImageRef)
}

// Validate checks the fields of a new report.
func (f ItemFields) Validate() error {
	switch {
	case f.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case f.Description == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case f.Location == "":
		return fmt.Errorf("%w: location is required", ErrValidation)
	case !ValidCategory(f.Category):
		return fmt.Errorf("%w: unknown category %q", ErrValidation, f.Category)
	case !ValidDisposition(f.Disposition):
		return fmt.Errorf("%w: disposition must be %q or %q", ErrValidation, DispositionLost, DispositionFound)
	case f.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

// ItemEdit holds the fields an owner may change after reporting. Nil fields
// are left untouched. ClearImage removes the image reference.
type ItemEdit struct {
	Category    *string
	Description *string
	Location    *string
	ImageRef    *string
	ClearImage  bool
}

// Apply returns a copy of item with the edit applied, or a validation error.
func (e ItemEdit) Apply(item Item) (Item, error) {
	if e.Category != nil {
		if !ValidCategory(*e.Category) {
			return item, fmt.Errorf("%w: unknown category %q", ErrValidation, *e.Category)
		}
		item.Category = *e.Category
	}
	if e.Description != nil {
		d := strings.TrimSpace(*e.Description)
		if d == "" {
			return item, fmt.Errorf("%w: description is required", ErrValidation)
		}
		item.Description = d
	}
	if e.Location != nil {
		l := strings.TrimSpace(*e.Location)
		if l == "" {
			return item, fmt.Errorf("%w: location is required", ErrValidation)
		}
		item.Location = l
	}
	if e.ClearImage {
		item.ImageRef = nil
	} else if ref := normalizeOptional(e.ImageRef); ref != nil {
		item.ImageRef = ref
	}
	return item, nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
