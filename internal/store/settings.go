package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// Setting keys.
const (
	SettingSigningSecret = "signing_secret"
)

// Setting returns the value stored under key. The boolean is false when the
// key is unset.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, true, nil
}

// SigningSecret returns the token signing secret persisted for development
// deployments that have no identity-provider secret configured. The first
// caller generates it; INSERT OR IGNORE plus a re-read keeps concurrent
// startups on the same value.
func (s *Store) SigningSecret(ctx context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating signing secret: %w", err)
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		SettingSigningSecret, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing signing secret: %w", err)
	}

	secret, ok, err := s.Setting(ctx, SettingSigningSecret)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("signing secret missing after insert")
	}
	return secret, nil
}
