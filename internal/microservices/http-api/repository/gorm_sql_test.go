package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"yamdb/internal/microservices/http-api/models"
)

// newMockDB opens gorm on the postgres dialect over an sqlmock connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestAttachRatings_SQL(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &titleRepository{db: gdb}

	q := `(?s)^SELECT\s+title_id,\s*AVG\(score\)::float8\s+AS\s+avg\s+FROM\s+"reviews"\s+WHERE\s+title_id\s+IN\s+\(\$1,\$2,\$3\)\s+GROUP\s+BY\s+"?title_id"?\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"title_id", "avg"}).
			AddRow(int64(1), 22.0/3.0).
			AddRow(int64(3), 10.0))

	titles := []models.Title{{ID: 1}, {ID: 2}, {ID: 3}}
	require.NoError(t, repo.attachRatings(context.Background(), titles))

	require.NotNil(t, titles[0].Rating)
	assert.Equal(t, 7.3, *titles[0].Rating)
	assert.Nil(t, titles[1].Rating)
	require.NotNil(t, titles[2].Rating)
	assert.Equal(t, 10.0, *titles[2].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachRatings_QueryError(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := &titleRepository{db: gdb}

	mock.ExpectQuery(`AVG\(score\)`).WillReturnError(errors.New("db down"))

	err := repo.attachRatings(context.Background(), []models.Title{{ID: 1}})
	assert.ErrorContains(t, err, "aggregate ratings: db down")
}

func TestAttachRatings_NoTitlesNoQuery(t *testing.T) {
	gdb, mock := newMockDB(t)

	require.NoError(t, (&titleRepository{db: gdb}).attachRatings(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewGetByID_ScopedToTitle(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)

	q := `(?s)^SELECT\s+\*\s+FROM\s+"reviews"\s+WHERE\s+id\s*=\s*\$1\s+AND\s+title_id\s*=\s*\$2\s+ORDER\s+BY\s+("reviews"\.)?"id"\s+LIMIT\s+\$3\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(7), int64(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title_id", "text", "score", "pub_date"}).
			AddRow(int64(7), "u1", int64(3), "great", 9, time.Now()))
	mock.ExpectQuery(`(?s)^SELECT\s+\*\s+FROM\s+"users"\s+WHERE\s+"users"\."id"\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow("u1", "reader", "reader@example.com", "user"))

	review, err := repo.GetByID(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), review.TitleID)
	assert.Equal(t, 9, review.Score)
	assert.Equal(t, "reader", review.Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewGetByID_OtherTitle(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1\s+AND\s+title_id\s*=\s*\$2`).
		WithArgs(int64(7), int64(4), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title_id", "text", "score", "pub_date"}))

	_, err := repo.GetByID(context.Background(), 4, 7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreate_SecondReviewIsDuplicate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+"reviews"\s+\("author_id","title_id","text","score","pub_date"\).*RETURNING\s+"id"`).
		WithArgs("u1", int64(3), "again", 8, sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "unique_title_author"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Review{AuthorID: "u1", TitleID: 3, Text: "again", Score: 8})
	assert.ErrorIs(t, err, ErrDuplicate)
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "unique_title_author", dup.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const updateTitleSQL = `(?s)^UPDATE\s+"titles"\s+SET\s+"name"=\$1,"year"=\$2,"description"=\$3,"category_id"=\$4\s+WHERE\s+("titles"\.)?"id"\s*=\s*\$5`

func TestTitleSave_RelinksGenres(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewTitleRepository(gdb)
	category := int64(2)

	mock.ExpectBegin()
	mock.ExpectExec(updateTitleSQL).
		WithArgs("Dune", 1965, nil, category, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+"genre_title"\s+WHERE\s+title_id\s*=\s*\$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+"genre_title"\s+\("genre_id","title_id"\)\s+VALUES\s+\(\$1,\$2\),\(\$3,\$4\)\s+ON\s+CONFLICT\s+DO\s+NOTHING\s+RETURNING\s+"id"`).
		WithArgs(int64(10), int64(5), int64(11), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectCommit()

	title := &models.Title{ID: 5, Name: "Dune", Year: 1965, CategoryID: &category}
	require.NoError(t, repo.Save(context.Background(), title, []int64{10, 11}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTitleSave_NilGenresKeepsLinks(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewTitleRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(updateTitleSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), &models.Title{ID: 5, Name: "Dune", Year: 1965}, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTitleSave_LinkFailureRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewTitleRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(updateTitleSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+"genre_title"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT\s+INTO\s+"genre_title"`).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), &models.Title{ID: 5, Name: "Dune", Year: 1965}, []int64{99})
	assert.ErrorContains(t, err, "link genres: fk violation")
	assert.NoError(t, mock.ExpectationsWereMet())
}
