package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresWithMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Postgres), mock
}

func TestPostgres_Insert(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO journal_entries (id, doc) VALUES ($1, $2::jsonb)`)).
		WithArgs("j-1", `{"content":"hi","id":"j-1"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Collection("journal_entries").Insert(ctx, store.Document{"id": "j-1", "content": "hi"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertDuplicate(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO life_phases`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.Collection("life_phases").Insert(context.Background(), store.Document{"id": "p-1"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestPostgres_InsertDBError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO places`)).WillReturnError(errors.New("boom"))

	err := s.Collection("places").Insert(context.Background(), store.Document{"id": "p-1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "db error")
}

func TestPostgres_Get(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()
	q := regexp.QuoteMeta(`SELECT doc FROM tastes WHERE id = $1`)

	mock.ExpectQuery(q).WithArgs("t-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"t-1","rating":5}`)))
	doc, err := s.Collection("tastes").Get(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, store.Document{"id": "t-1", "rating": float64(5)}, doc)

	mock.ExpectQuery(q).WithArgs("t-2").WillReturnError(sql.ErrNoRows)
	_, err = s.Collection("tastes").Get(ctx, "t-2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Update(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journal_entries SET doc = jsonb_strip_nulls(doc || $1::jsonb) WHERE id = $2`)).
		WithArgs(`{"content":"new","tags":null}`, "j-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM journal_entries WHERE id = $1`)).WithArgs("j-1").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"j-1","content":"new","deleted":false}`)))
	mock.ExpectCommit()

	doc, err := s.Collection("journal_entries").Update(ctx, "j-1", store.Document{"id": "ignored", "content": "new", "tags": nil})
	require.NoError(t, err)
	assert.Equal(t, "new", doc["content"])
	assert.Equal(t, false, doc["deleted"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateMissingRollsBack(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE places SET doc`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Collection("places").Update(context.Background(), "nope", store.Document{"name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Delete(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()
	q := regexp.QuoteMeta(`DELETE FROM photos WHERE id = $1`)

	mock.ExpectExec(q).WithArgs("ph-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Collection("photos").Delete(ctx, "ph-1"))

	mock.ExpectExec(q).WithArgs("ph-1").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Collection("photos").Delete(ctx, "ph-1"), store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindSQL(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT doc FROM journal_entries WHERE ((doc->>'ownerId' = $1 AND doc->>'deleted' = $2) AND ` +
			`(strpos(lower(doc->>'content'), lower($3)) > 0 OR doc->'tags' ? $4)) ` +
			`ORDER BY doc->'date' DESC NULLS LAST, doc->'time' DESC NULLS LAST, seq`)).
		WithArgs("u-1", "false", "Spring", "spring").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"id":"j-2"}`)).
			AddRow([]byte(`{"id":"j-1"}`)))

	docs, err := s.Collection("journal_entries").Find(context.Background(), store.Query{
		Where: store.And{
			store.And{store.Eq{Field: "ownerId", Value: "u-1"}, store.Eq{Field: "deleted", Value: false}},
			store.Or{store.Substr{Field: "content", Text: "Spring"}, store.Has{Field: "tags", Value: "spring"}},
		},
		Sort: []store.Sort{store.Desc("date"), store.Desc("time")},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "j-2", docs[0].ID())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindNumericValue(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM tastes WHERE doc->>'rating' = $1 ORDER BY seq`)).
		WithArgs("5").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	docs, err := s.Collection("tastes").Find(context.Background(), store.Query{Where: store.Eq{Field: "rating", Value: 5}})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPostgres_FindDecodeError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM places ORDER BY seq`)).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{broken`)))

	_, err := s.Collection("places").Find(context.Background(), store.Query{})
	assert.Error(t, err)
}

func TestMigrate_UsesDialectDirectory(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	s, _ := newPostgresWithMock(t)
	require.NoError(t, s.Migrate(context.Background()))
	assert.Equal(t, "migrations/postgres", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("goose failed")
	}
	assert.ErrorContains(t, s.Migrate(context.Background()), "goose failed")
}

func TestDialectValues(t *testing.T) {
	assert.Equal(t, "true", param(Postgres, true))
	assert.Equal(t, "48.21", param(Postgres, 48.21))
	assert.Equal(t, "HAPPY", param(Postgres, "HAPPY"))
	assert.Equal(t, 0, param(SQLite, false))
	assert.Equal(t, float64(3), param(SQLite, 3))

	assert.True(t, Postgres.IsDuplicate(&pgconn.PgError{Code: "23505"}))
	assert.False(t, Postgres.IsDuplicate(&pgconn.PgError{Code: "23503"}))
	assert.False(t, SQLite.IsDuplicate(errors.New("x")))
}
