package credentials

import (
	"context"
	"database/sql"
	"testing"

	"galleryctl/internal/dbx"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:credrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS credentials (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM credentials`)
	require.NoError(t, err)
	return db
}

func TestGet_MissingKeyReturnsNil(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	v, err := repo.Get(context.Background(), KeyAccessToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSetGet_RoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyAccessToken, []byte("tok-1")))

	v, err := repo.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok-1"), v)
}

func TestSet_Upserts(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyRefreshToken, []byte("old")))
	require.NoError(t, repo.Set(ctx, KeyRefreshToken, []byte("new")))

	v, err := repo.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_RemovesOnlyThatKey(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyAccessToken, []byte("a")))
	require.NoError(t, repo.Set(ctx, KeyUser, []byte(`{"id":"u1"}`)))

	require.NoError(t, repo.Delete(ctx, KeyAccessToken))

	v, err := repo.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Nil(t, v)

	v, err = repo.Get(ctx, KeyUser)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":"u1"}`), v)
}

func TestDelete_AbsentKeyIsNoError(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	require.NoError(t, repo.Delete(context.Background(), "nope"))
}

func TestClear_WipesEverything(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyAccessToken, []byte("a")))
	require.NoError(t, repo.Set(ctx, KeyRefreshToken, []byte("r")))
	require.NoError(t, repo.Set(ctx, KeyUser, []byte("u")))

	require.NoError(t, repo.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM credentials`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestRepository_WorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte("a")); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRefreshToken, []byte("r"))
	})
	require.NoError(t, err)

	repo := NewSQLiteRepository(db)
	v, err := repo.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, []byte("r"), v)
}

func TestOpen_MigratesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, t.TempDir()+"/creds.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, KeyAccessToken, []byte("tok")))

	v, err := repo.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), v)
}
