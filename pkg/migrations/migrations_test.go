package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `
-- runs
create table if not exists item (
	id integer primary key, -- rowid
	name text not null
);

create index if not exists item_name on item(name);
`

func TestStatements(t *testing.T) {
	stmts := Statements(testSchema)
	require.Len(t, stmts, 2)
	require.Contains(t, stmts[0], "create table if not exists item")
	require.NotContains(t, stmts[0], "rowid")
}

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("libsql://db.turso.io?authToken=x"))
	require.True(t, IsRemote("http://127.0.0.1:8080"))
	require.False(t, IsRemote(":memory:"))
	require.False(t, IsRemote("out/countryfeatures.db"))
}

func TestOpenAndMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := OpenAndMigrateDB(ctx, testSchema, path)
	require.NoError(t, err)
	_, err = db.Exec("insert into item(name) values ('a')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenAndMigrateDB(ctx, testSchema, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("select count(*) from item").Scan(&count))
	require.Equal(t, 1, count)
}
