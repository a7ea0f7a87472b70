package spaces

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var cols = []string{"id", "owner_id", "name", "created_date", "kind", "note", "after_key", "after_mime", "before_key", "before_mime"}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+spaces\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC`
	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("s2", "u1", "Desk", "Oct 17, 2026", "scan", "", "u1/s2/after", "image/png", "u1/s2/before", "image/jpeg").
			AddRow("s1", "u1", "Dream", "Oct 16, 2026", "dream", "n", "u1/s1/after", "image/png", "", ""))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s2", got[0].ID)
	assert.Equal(t, "dream", got[1].Kind)
	assert.Empty(t, got[1].BeforeKey)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT`).WillReturnError(errors.New("down"))

	_, err := repo.List(context.Background(), "u1")
	require.ErrorContains(t, err, "db error")
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT .* FROM\s+spaces\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`
	mock.ExpectQuery(q).WithArgs("u1", "s1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("s1", "u1", "Desk", "Oct 17, 2026", "scan", "", "k", "image/png", "", ""))
	mock.ExpectQuery(q).WithArgs("u1", "s9").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Desk", got.Name)

	_, err = repo.Get(context.Background(), "u1", "s9")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+spaces.*ON\s+CONFLICT\s+\(owner_id,\s*id\)\s+DO\s+NOTHING`
	s := &models.Space{ID: "s1", OwnerID: "u1", Name: "Desk", CreatedDate: "Oct 17, 2026", Kind: "scan", AfterKey: "k", AfterMime: "image/png"}
	args := []driver.Value{"s1", "u1", "Desk", "Oct 17, 2026", "scan", "", "k", "image/png", "", ""}
	mock.ExpectExec(q).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Create(context.Background(), s))
	require.ErrorIs(t, repo.Create(context.Background(), s), common.ErrorAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+spaces\s+SET\s+name\s*=\s*\$1,.*after_key\s*=\s*\$3,.*WHERE\s+owner_id\s*=\s*\$7\s+AND\s+id\s*=\s*\$8\s*$`
	s := &models.Space{ID: "s1", OwnerID: "u1", Name: "Desk", Note: "n", AfterKey: "k2", AfterMime: "image/png", BeforeKey: "b2", BeforeMime: "image/jpeg"}
	mock.ExpectExec(q).WithArgs("Desk", "n", "k2", "image/png", "b2", "image/jpeg", "u1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("Desk", "n", "k2", "image/png", "b2", "image/jpeg", "u1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), s))
	require.ErrorIs(t, repo.Update(context.Background(), s), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeta(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+spaces\s+SET\s+name\s*=\s*\$1,\s*note\s*=\s*\$2\s+WHERE\s+owner_id\s*=\s*\$3\s+AND\s+id\s*=\s*\$4\s*$`
	mock.ExpectExec(q).WithArgs("New", "note", "u1", "s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("New", "note", "u1", "s9").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateMeta(context.Background(), "u1", "s1", "New", "note"))
	require.ErrorIs(t, repo.UpdateMeta(context.Background(), "u1", "s9", "New", "note"), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+spaces\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`
	mock.ExpectExec(q).WithArgs("u1", "s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("u1", "s1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "u1", "s1"))
	require.ErrorIs(t, repo.Delete(context.Background(), "u1", "s1"), common.ErrorNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM spaces WHERE owner_id = \$1$`).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteByOwner(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
