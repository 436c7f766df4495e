package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*CartRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCartRepo(db), mock
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM movies WHERE id=? LIMIT 1")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(9.99))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items (user_id, movie_id, price) VALUES (?,?,?)")).
		WithArgs(uint64(1), uint64(3), 9.99).
		WillReturnResult(sqlmock.NewResult(10, 1))

	require.NoError(t, repo.AddToCart(context.Background(), 1, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartTwiceIsIdempotent(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM movies WHERE id=? LIMIT 1")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(9.99))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(uint64(1), uint64(3), 9.99).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '1-3' for key 'uq_cart_items_user_movie'"))

	require.NoError(t, repo.AddToCart(context.Background(), 1, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartUnknownMovie(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT price FROM movies WHERE id=? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))

	err := repo.AddToCart(context.Background(), 1, 99)
	require.ErrorIs(t, err, ErrMovieNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveFromCartAbsentIsNoop(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id=? AND movie_id=?")).
		WithArgs(uint64(1), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RemoveFromCart(context.Background(), 1, 5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteOrderEmptyCart(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "title", "image_url", "price"}))
	mock.ExpectRollback()

	orderID, lines, err := repo.CompleteOrder(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, orderID)
	require.Empty(t, lines)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteOrderMovesCartToHistory(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "title", "image_url", "price"}).
			AddRow(1, 10, "Alpha", "a.jpg", 9.99).
			AddRow(2, 11, "Beta", "b.jpg", 4.50))
	mock.ExpectExec("INSERT INTO order_histories").
		WithArgs(sqlmock.AnyArg(), uint64(7), uint64(10), 9.99,
			sqlmock.AnyArg(), uint64(7), uint64(11), 4.50).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id=? AND purchased=0")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	orderID, lines, err := repo.CompleteOrder(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "Alpha", lines[0].Title)
	require.Equal(t, 9.99, lines[0].Price)

	// All rows of one checkout share a single well-formed order id.
	_, err = uuid.Parse(orderID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCart(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "title", "image_url", "price"}).
			AddRow(4, 20, "Gamma", "g.jpg", 12.00))

	lines, err := repo.ListCart(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, uint64(20), lines[0].MovieID)
	require.NoError(t, mock.ExpectationsWereMet())
}
