package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a migrated SQLite database in a temp directory.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := "sqlite://" + filepath.Join(t.TempDir(), "chances.db") + "?_busy_timeout=5000"
	database, err := Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = MigrateUp(context.Background(), database)
	require.NoError(t, err)
	return database
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{"relative sqlite", "sqlite://data/chances.db", DriverSQLite, "data/chances.db", false},
		{"absolute sqlite", "sqlite:///var/lib/ck.db", DriverSQLite, "/var/lib/ck.db", false},
		{"sqlite with params", "sqlite:///tmp/ck.db?_busy_timeout=5000", DriverSQLite, "/tmp/ck.db?_busy_timeout=5000", false},
		{"postgres", "postgres://u:p@localhost:5432/ck?sslmode=disable", DriverPostgres, "postgres://u:p@localhost:5432/ck?sslmode=disable", false},
		{"postgresql alias", "postgresql://localhost/ck", DriverPostgres, "postgresql://localhost/ck", false},
		{"missing sqlite path", "sqlite://", "", "", true},
		{"unknown scheme", "mysql://localhost/ck", "", "", true},
		{"unparseable", "://", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, source, err := parseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestOpen_SQLite(t *testing.T) {
	url := "sqlite://" + filepath.Join(t.TempDir(), "open.db")
	database, err := Open(context.Background(), url)
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, DriverSQLite, database.DriverName())
	assert.Equal(t, maxOpenConns, database.Stats().MaxOpenConnections)
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "redis://localhost")
	assert.ErrorContains(t, err, "unsupported database scheme")
}
