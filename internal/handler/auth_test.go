package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avetkov/movie-store/internal/config"
	"github.com/avetkov/movie-store/internal/model"
	"github.com/avetkov/movie-store/internal/repository"
	"github.com/avetkov/movie-store/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 30,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Unknown email and wrong password must be indistinguishable, otherwise
// the login endpoint doubles as an account directory.
func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	// Unknown email: repo lookup misses.
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "email", "phone", "password_hash", "role", "created_at", "updated_at",
		}))

	c, rec := postJSON(e, "/v1/auth/login", `{"email":"ghost@example.com","password":"pw"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	unknownBody := rec.Body.String()

	// Known email, wrong password.
	hash, err := utils.HashPassword("right-password", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "email", "phone", "password_hash", "role", "created_at", "updated_at",
		}).AddRow(6, "Dana", "dana@example.com", "", hash, model.RoleUser, now, now))

	c, rec = postJSON(e, "/v1/auth/login", `{"email":"dana@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, unknownBody, rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccessIssuesTokenPair(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	hash, err := utils.HashPassword("right-password", 4)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "email", "phone", "password_hash", "role", "created_at", "updated_at",
		}).AddRow(6, "Dana", "dana@example.com", "", hash, model.RoleUser, now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(6), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := postJSON(e, "/v1/auth/login", `{"email":"dana@example.com","password":"right-password"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"access"`)
	require.Contains(t, rec.Body.String(), `"refresh"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"","password":""}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h, mock := newAuthHandler(t)
	e := echo.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email=? LIMIT 1")).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))

	c, rec := postJSON(e, "/v1/auth/register",
		`{"full_name":"Dana","email":"dana@example.com","password":"pw"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
