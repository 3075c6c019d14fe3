package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, runMigrations(context.Background(), nil))
	assert.Equal(t, "migrations", gotDir)
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return boom
	}

	err := runMigrations(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestMigrations_DeclareUsersAndNotes(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/00001_init.sql")
	require.NoError(t, err)

	sqlText := string(raw)
	assert.True(t, strings.HasPrefix(sqlText, "-- +goose Up"))
	assert.Contains(t, sqlText, "ON users (lower(username))")
	assert.Contains(t, sqlText, "ON DELETE CASCADE")
	assert.Contains(t, sqlText, "CHECK (role IN ('User', 'Admin'))")
}

func TestEnsureSchema_NilPool(t *testing.T) {
	var db *DB
	assert.Error(t, db.EnsureSchema(context.Background()))
}
