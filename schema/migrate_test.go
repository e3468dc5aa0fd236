package schema_test

import (
	"bytes"
	"database/sql"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/automap/schema"
)

func openSQLite(t *testing.T) *schema.DB {
	t.Helper()

	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection gets its own in-memory database.
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	return schema.New(raw, schema.SQLite)
}

func tableNames(t *testing.T, db *schema.DB) []string {
	t.Helper()

	rows, err := db.QueryContext(t.Context(),
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func scanOne(t *testing.T, db *schema.DB, query string, dest ...any) {
	t.Helper()

	rows, err := db.QueryContext(t.Context(), query)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next(), "no rows for %s", query)
	require.NoError(t, rows.Scan(dest...))
}

func TestMigrateSQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	ctx := t.Context()
	maps := buildMaps(t)

	require.NoError(t, schema.Migrate(ctx, db, maps))
	assert.Equal(t, []string{"authors", "book_tags", "books", "profiles", "tags"}, tableNames(t, db))

	// Existing tables are left alone.
	require.NoError(t, schema.Migrate(ctx, db, maps))

	err := db.Transaction(ctx, func(tx *schema.Tx) error {
		return schema.Apply(ctx, tx, []string{
			`INSERT INTO authors (name) VALUES ('Ursula')`,
			`INSERT INTO books (title, author_id) VALUES ('The Dispossessed', 1)`,
			`INSERT INTO tags (name) VALUES ('scifi')`,
			`INSERT INTO book_tags (book_id, tag_id) VALUES (1, 1)`,
			`INSERT INTO profiles (bio, author_id) VALUES (NULL, 1)`,
		})
	})
	require.NoError(t, err)

	var title string
	scanOne(t, db,
		`SELECT b.title FROM books b JOIN book_tags bt ON bt.book_id = b.id JOIN tags t ON t.id = bt.tag_id WHERE t.name = 'scifi'`,
		&title)
	assert.Equal(t, "The Dispossessed", title)

	_, err = db.ExecContext(ctx, `INSERT INTO tags (name) VALUES ('scifi')`)
	require.Error(t, err, "tags.name is unique")

	require.NoError(t, schema.Drop(ctx, db, maps))
	assert.Empty(t, tableNames(t, db))
}

func TestTransactionRollsBack(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	ctx := t.Context()
	_, err := db.ExecContext(ctx, `CREATE TABLE notes (body TEXT)`)
	require.NoError(t, err)

	err = db.Transaction(ctx, func(tx *schema.Tx) error {
		return schema.Apply(ctx, tx, []string{
			`INSERT INTO notes (body) VALUES ('kept?')`,
			`INSERT INTO missing (body) VALUES ('boom')`,
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 2")

	var n int
	scanOne(t, db, `SELECT COUNT(*) FROM notes`, &n)
	assert.Zero(t, n)
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	ex := schema.NewTestExecer(schema.SQLite)
	ex.FailAt = 2

	err := schema.Apply(t.Context(), ex, []string{"one", "two", "three"})
	require.Error(t, err)
	assert.Equal(t, []string{"one", "two"}, ex.Statements)
}

func TestDebugLogsStatements(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	db := openSQLite(t).Debug(schema.ZerologLogger{Logger: zerolog.New(&buf).Level(zerolog.DebugLevel)})

	require.NoError(t, schema.Migrate(t.Context(), db, buildMaps(t)))
	assert.Contains(t, buf.String(), `"sql":"CREATE TABLE IF NOT EXISTS \"authors\"`)
	assert.Equal(t, schema.SQLite, db.Dialect())
}
