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

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email=? LIMIT 1")).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	_, err := repo.Create(context.Background(), "Dana", "Dana@Example.com", "", "secret", model.RoleUser, 4)
	require.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email=? LIMIT 1")).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Dana", "dana@example.com", "", sqlmock.AnyArg(), model.RoleUser).
		WillReturnResult(sqlmock.NewResult(6, 1))

	id, err := repo.Create(context.Background(), "Dana", "  Dana@Example.com ", "", "secret", model.RoleUser, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(6), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFoundUser(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "email", "phone", "password_hash", "role", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), 12)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserNotFound(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=?")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 12)
	require.ErrorIs(t, err, ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileMissingUserIsSilent(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec("UPDATE users SET full_name=").
		WithArgs("Dana", "dana@example.com", "123", uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateProfile(context.Background(), 12, "Dana", "dana@example.com", "123"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchUsers(t *testing.T) {
	repo, mock := newUserMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT .+ FROM users WHERE full_name LIKE").
		WithArgs("%an%").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "full_name", "email", "phone", "password_hash", "role", "created_at", "updated_at",
		}).AddRow(6, "Dana", "dana@example.com", "", "x", model.RoleUser, now, now))

	users, err := repo.Search(context.Background(), "an")
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Dana", users[0].FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}
