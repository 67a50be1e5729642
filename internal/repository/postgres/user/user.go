package user

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"roster/backend/foundation/web"
	"roster/backend/internal/entity"
	"roster/backend/internal/pkg/repository/postgresql"
)

// ErrInvalidCredentials is returned for an unknown login or a wrong password
// alike, so callers cannot probe which logins exist.
var ErrInvalidCredentials = errors.New("incorrect login or password")

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetByLogin(ctx context.Context, login string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("login = ?", login).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(ErrInvalidCredentials, http.StatusUnauthorized)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting user"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Authenticate returns the user whose login and password match.
func (r Repository) Authenticate(ctx context.Context, login, password string) (entity.User, error) {
	detail, err := r.GetByLogin(ctx, login)
	if err != nil {
		return entity.User{}, err
	}

	if detail.Password == nil {
		return entity.User{}, web.NewRequestError(ErrInvalidCredentials, http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*detail.Password), []byte(password)); err != nil {
		return entity.User{}, web.NewRequestError(ErrInvalidCredentials, http.StatusUnauthorized)
	}

	return detail, nil
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}
