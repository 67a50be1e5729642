package auth

import (
	"context"

	"roster/backend/internal/entity"
)

type User interface {
	Authenticate(ctx context.Context, login, password string) (entity.User, error)
}

type Tokens interface {
	GenerateToken(userID int, role string) (string, error)
}
