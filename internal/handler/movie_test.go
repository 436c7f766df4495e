package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avetkov/movie-store/internal/repository"
)

func newMovieHandler(t *testing.T, assetsDir string) (*MovieHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMovieHandler(repository.NewMovieRepo(db), nil, "catalog", assetsDir), mock
}

func getReq(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// An empty search term answers immediately with an empty list; the
// database is never queried.
func TestSearchEmptyTermSkipsDatabase(t *testing.T) {
	h, mock := newMovieHandler(t, "assets")
	e := echo.New()

	c, rec := getReq(e, "/v1/movies/search?q=%20%20")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[]}`, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDetailsRejectsBadID(t *testing.T) {
	h, _ := newMovieHandler(t, "assets")
	e := echo.New()

	c, rec := getReq(e, "/v1/movies/abc")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Details(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsUnknownGenre(t *testing.T) {
	h, mock := newMovieHandler(t, "assets")
	e := echo.New()

	body := `{"title":"X","price":1,"release_date":"2025-06-01","genre":"Horror","category":"New","producer_id":1}`
	req := httptest.NewRequest(http.MethodPost, "/v1/movies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A movie whose file reference points at nothing on disk answers 404
// instead of surfacing a stream error mid-response.
func TestDownloadMissingFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	h, mock := newMovieHandler(t, dir)
	e := echo.New()

	file := "gone.mp4"
	mock.ExpectQuery("SELECT m.id, m.title, m.description").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "image_url", "release_date",
			"genre", "category", "movie_file", "producer_id", "full_name",
		}).AddRow(7, "X", "d", 1.0, "x.jpg", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "Action", "New", file, 1, "P"))
	mock.ExpectQuery("SELECT a.id, a.full_name").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}))

	c, rec := getReq(e, "/v1/movies/7/download")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Download(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A traversal attempt in the stored reference is reduced to its base
// name and served only from the assets directory.
func TestDownloadStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "safe.mp4"), []byte("data"), 0o644))

	h, mock := newMovieHandler(t, dir)
	e := echo.New()

	file := "../../etc/safe.mp4"
	mock.ExpectQuery("SELECT m.id, m.title, m.description").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "price", "image_url", "release_date",
			"genre", "category", "movie_file", "producer_id", "full_name",
		}).AddRow(7, "X", "d", 1.0, "x.jpg", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "Action", "New", file, 1, "P"))
	mock.ExpectQuery("SELECT a.id, a.full_name").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}))

	c, rec := getReq(e, "/v1/movies/7/download")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Download(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "data", rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
