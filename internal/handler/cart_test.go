package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avetkov/movie-store/internal/repository"
)

func newCartHandler(t *testing.T) (*CartHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCartHandler(repository.NewCartRepo(db)), mock
}

func authedPost(e *echo.Echo, target string, userID float64) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID) // JWT numeric claims arrive as float64
	return c, rec
}

func TestCheckoutEmptyCart(t *testing.T) {
	h, mock := newCartHandler(t)
	e := echo.New()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT ci.id, ci.movie_id, m.title, m.image_url, ci.price").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "title", "image_url", "price"}))
	mock.ExpectRollback()

	c, rec := authedPost(e, "/v1/cart/checkout", 7)
	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "cart is empty")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRequiresAuthContext(t *testing.T) {
	h, _ := newCartHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/v1/cart/checkout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Checkout(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddToCartUnknownMovieAnswers404(t *testing.T) {
	h, mock := newCartHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT price FROM movies").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}))

	c, rec := authedPost(e, "/v1/cart/99", 7)
	c.SetParamNames("movieID")
	c.SetParamValues("99")
	require.NoError(t, h.Add(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
