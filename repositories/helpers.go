package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique_violation on
// the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraint
}
