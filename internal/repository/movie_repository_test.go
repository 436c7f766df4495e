package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/avetkov/movie-store/internal/model"
)

func newMovieMock(t *testing.T) (*MovieRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMovieRepo(db), mock
}

func sampleMovie() *model.Movie {
	return &model.Movie{
		Title:       "Interdimensional",
		Description: "A heist across realities.",
		Price:       14.99,
		ImageURL:    "inter.jpg",
		ReleaseDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Genre:       model.GenreAction,
		Category:    model.CategoryNew,
		ProducerID:  2,
	}
}

func TestCreateMovieWithCast(t *testing.T) {
	repo, mock := newMovieMock(t)
	m := sampleMovie()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO movies").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO actor_movies (actor_id, movie_id) VALUES (?, ?),(?, ?)")).
		WithArgs(uint64(3), uint64(7), uint64(4), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM movies WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), m, []uint64{3, 4}))
	require.Equal(t, uint64(7), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMovieWithoutCastSkipsJoinInsert(t *testing.T) {
	repo, mock := newMovieMock(t)
	m := sampleMovie()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO movies").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM movies WHERE id = ?")).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), m, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingMovieLeavesCastUntouched(t *testing.T) {
	repo, mock := newMovieMock(t)
	m := sampleMovie()
	m.ID = 99

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE movies").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Zero affected rows is reported as success without touching
	// actor_movies.
	require.NoError(t, repo.Update(context.Background(), m, []uint64{1}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReplacesCast(t *testing.T) {
	repo, mock := newMovieMock(t)
	m := sampleMovie()
	m.ID = 7

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE movies").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM actor_movies WHERE movie_id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO actor_movies (actor_id, movie_id) VALUES (?, ?)")).
		WithArgs(uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), m, []uint64{5}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMovieRemovesCastFirst(t *testing.T) {
	repo, mock := newMovieMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM actor_movies WHERE movie_id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingMovie(t *testing.T) {
	repo, mock := newMovieMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM actor_movies WHERE movie_id=?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, ErrMovieNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDAssemblesCast(t *testing.T) {
	repo, mock := newMovieMock(t)

	mock.ExpectQuery("SELECT m.id, m.title, m.description").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "image_url", "release_date",
			"genre", "category", "movie_file", "producer_id", "full_name",
		}).AddRow(7, "Interdimensional", "A heist.", 14.99, "inter.jpg",
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			"Action", "New", nil, 2, "Ada Lanke"))
	mock.ExpectQuery("SELECT a.id, a.full_name").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow(3, "Mira Voss").
			AddRow(4, "Tomas Ry"))

	det, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Ada Lanke", det.ProducerName)
	require.Nil(t, det.MovieFile)
	require.Len(t, det.Actors, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMovieMock(t)

	mock.ExpectQuery("SELECT m.id, m.title, m.description").
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "image_url", "release_date",
			"genre", "category", "movie_file", "producer_id", "full_name",
		}))

	_, err := repo.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, ErrMovieNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
