package sqlite

import "strings"

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure.
//
// modernc.org/sqlite surfaces constraint violations as driver errors whose
// message carries the SQLite error text; matching on it is the portable
// way to detect the condition without importing driver internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
