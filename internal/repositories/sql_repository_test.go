package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"illustraBack/internal/models"
)

func newMockRepo(t *testing.T, dialect Dialect) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLRepository(db, dialect)
	repo.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestSQLRepositoryListOrdersByAttribute(t *testing.T) {
	repo, mock := newMockRepo(t, Postgres)

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("b", []byte(`{"order":2,"title":{"it":"Due"}}`)).
		AddRow("a", []byte(`{"order":1}`)).
		AddRow("c", []byte(`{"order":1.5}`))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE collection = $1")).
		WithArgs(models.CollectionIllustrations).
		WillReturnRows(rows)

	recs, err := repo.List(context.Background(), models.CollectionIllustrations, ListOptions{OrderBy: "order"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "a", recs[0].ID())
	assert.Equal(t, "c", recs[1].ID())
	assert.Equal(t, "b", recs[2].ID())
	assert.Equal(t, int64(1), recs[0]["order"])
	assert.Equal(t, 1.5, recs[1]["order"])
	assert.Equal(t, "Due", recs[2]["title"].(map[string]any)["it"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, MySQL)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM documents WHERE collection = ? AND id = ?")).
		WithArgs("charm", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err := repo.Get(context.Background(), "charm", "missing")
	assert.True(t, errors.Is(err, models.ErrRecordNotFound), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryCreateRetriesDuplicateID(t *testing.T) {
	repo, mock := newMockRepo(t, MySQL)
	ids := []string{"dup", "fresh"}
	repo.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	insert := regexp.QuoteMeta("INSERT INTO documents")
	mock.ExpectExec(insert).
		WithArgs("stickers", "dup", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectExec(insert).
		WithArgs("stickers", "fresh", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Create(context.Background(), "stickers", map[string]any{"price": int64(3)})
	require.NoError(t, err)
	assert.Equal(t, "fresh", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryUpdateMergesTopLevelFields(t *testing.T) {
	repo, mock := newMockRepo(t, Postgres)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("portachiavi", "k1").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"price":4,"available":true}`)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET data = $1, updated_at = $2 WHERE collection = $3 AND id = $4")).
		WithArgs(jsonArg(`{"available":true,"price":6}`), sqlmock.AnyArg(), "portachiavi", "k1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "portachiavi", "k1", map[string]any{"price": int64(6), models.IDKey: "k1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepositoryUpdateMissingRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t, MySQL)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("spille", "gone").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), "spille", "gone", map[string]any{"price": int64(1)})
	assert.True(t, errors.Is(err, models.ErrRecordNotFound), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectRebind(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2", Postgres.rebind("a = ? AND b = ?"))
	assert.Equal(t, "a = ? AND b = ?", MySQL.rebind("a = ? AND b = ?"))

	_, err := DialectFor("sqlite")
	assert.Error(t, err)
}

type jsonArg string

func (j jsonArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	return ok && string(b) == string(j)
}
