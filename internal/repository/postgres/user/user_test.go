package user_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/backend/foundation/web"
	"roster/backend/internal/pkg/repository/postgresql"
	"roster/backend/internal/repository/postgres/user"
)

func setup(t *testing.T) (*user.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return user.NewRepository(postgresql.NewFromDB(db)), mock
}

func TestAuthenticate(t *testing.T) {
	hash, err := user.HashPassword("secret")
	require.NoError(t, err)

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "login", "password", "role", "full_name"}).
			AddRow(1, "admin", hash, "ADMIN", "Site Admin")
	}

	t.Run("correct password", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(rows())

		got, err := repo.Authenticate(context.Background(), "admin", "secret")

		require.NoError(t, err)
		assert.Equal(t, 1, got.ID)
		require.NotNil(t, got.Role)
		assert.Equal(t, "ADMIN", *got.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(rows())

		_, err := repo.Authenticate(context.Background(), "admin", "guess")

		var webErr *web.Error
		require.True(t, errors.As(err, &webErr))
		assert.Equal(t, http.StatusUnauthorized, webErr.Status)
		assert.True(t, errors.Is(err, user.ErrInvalidCredentials))
	})

	t.Run("unknown login", func(t *testing.T) {
		repo, mock := setup(t)
		mock.ExpectQuery(`SELECT .* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Authenticate(context.Background(), "nobody", "secret")

		assert.True(t, errors.Is(err, user.ErrInvalidCredentials))
	})
}
