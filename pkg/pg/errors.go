package pg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict is returned by a compare-and-set write that matched no row
	// because a concurrent writer got there first.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrRetriesExhausted wraps the last conflict once retries run out.
	ErrRetriesExhausted = errors.New("max retries exceeded")
)

// postgres SQLSTATE codes that are safe to retry as a whole transaction
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

// IsRetriable reports whether err is a transient write conflict.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
			return true
		}
		return false
	}

	// sqlite reports lock contention only through its message
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
