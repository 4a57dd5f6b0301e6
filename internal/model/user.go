package model

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is an identity registered by the external identity provider. The
// service never stores credentials.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the user-editable contact details.
type Profile struct {
	Name  string
	Email string
	Phone *string
}

// Normalize trims the profile fields. An empty phone becomes absent.
func (p *Profile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = normalizeOptional(p.Phone)
}

// Validate checks that the profile has a name and a well-formed email.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, p.Email)
	}
	return nil
}
