// Package store persists users, items and claims in SQLite.
//
// ItemRegistry and ClaimLedger are plain data stores: they validate their own
// input and referential integrity but make no authorization decisions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store binds the registries to a database.
type Store struct {
	DB *sql.DB

	// Now supplies timestamps for new and updated records.
	Now func() time.Time
}

// New returns a Store using the wall clock in UTC.
func New(db *sql.DB) *Store {
	return &Store{
		DB:  db,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// Tx groups the registries bound to a single transaction.
type Tx struct {
	Items  *ItemRegistry
	Claims *ClaimLedger
	Users  *UserDirectory
}

// Items returns the item registry outside of any transaction.
func (s *Store) Items() *ItemRegistry {
	return &ItemRegistry{q: s.DB, now: s.Now}
}

// Claims returns the claim ledger outside of any transaction.
func (s *Store) Claims() *ClaimLedger {
	return &ClaimLedger{q: s.DB, now: s.Now}
}

// Users returns the user directory outside of any transaction.
func (s *Store) Users() *UserDirectory {
	return &UserDirectory{q: s.DB, now: s.Now}
}

// InTx runs fn inside a write transaction. The database is opened with
// immediate transactions, so concurrent InTx calls are serialized and any
// check fn performs still holds when it writes. The transaction commits only
// if fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	tx := &Tx{
		Items:  &ItemRegistry{q: sqlTx, now: s.Now},
		Claims: &ClaimLedger{q: sqlTx, now: s.Now},
		Users:  &UserDirectory{q: sqlTx, now: s.Now},
	}
	if err := fn(tx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Collect drains a sequence into a slice, stopping at the first error.
// The result is never nil on success.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// querySeq returns a restartable sequence over the rows of a query. The query
// runs each time the sequence is ranged over and rows are closed when the
// caller stops early.
func querySeq[T any](ctx context.Context, q Querier, what string, scan func(scanner) (T, error), query string, args ...any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, fmt.Errorf("listing %s: %w", what, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				yield(zero, fmt.Errorf("scanning %s: %w", what, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("listing %s: %w", what, err))
		}
	}
}

// newID returns a time-ordered identifier for a new record.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
