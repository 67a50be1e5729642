package auth

import (
	"net/http"

	"roster/backend/foundation/web"
	"roster/backend/internal/repository/postgres/user"
)

type Controller struct {
	user   User
	tokens Tokens
}

func NewController(user User, tokens Tokens) *Controller {
	return &Controller{user: user, tokens: tokens}
}

func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data, "Login", "Password"); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.Authenticate(c.Ctx, data.Login, data.Password)
	if err != nil {
		return c.RespondError(err)
	}

	var role, fullName string
	if detail.Role != nil {
		role = *detail.Role
	}
	if detail.FullName != nil {
		fullName = *detail.FullName
	}

	token, err := uc.tokens.GenerateToken(detail.ID, role)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": user.SignInResponse{
			AccessToken: token,
			Role:        role,
			FullName:    fullName,
		},
		"error": nil,
	}, http.StatusOK)
}
