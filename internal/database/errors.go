package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrUniqueViolation is returned by InsertLink when the short code is
	// already taken. Callers may retry with a different code.
	ErrUniqueViolation = errors.New("short code already exists")
	// ErrNotFound is returned when no link has the requested short code.
	ErrNotFound = errors.New("link not found")
)

const shortCodeConstraint = "links_short_code_key"

// isShortCodeViolation reports whether err is the store rejecting a duplicate
// short code. Primary key clashes on record_id are not included.
func isShortCodeViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == shortCodeConstraint
	}

	return false
}
