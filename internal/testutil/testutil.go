package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/phrasecards/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// CatalogCSV builds a card table with the standard header from data rows.
func CatalogCSV(rows ...string) string {
	text := "no,jp,en,slots,video,lv,note,scene\n"
	for _, r := range rows {
		text += r + "\n"
	}
	return text
}
