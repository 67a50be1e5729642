package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
	"roster/backend/internal/auth"
	"roster/backend/internal/middleware"
)

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := auth.New("secret", time.Hour)
	require.NoError(t, err)

	app := web.NewApp(zap.NewNop().Sugar())
	app.Get("/whoami", func(c *web.Context) error {
		claims := c.Ctx.Value(auth.Key).(auth.Claims)
		return c.Respond(map[string]int{"user_id": claims.UserId}, http.StatusOK)
	}, middleware.Authenticate(a, auth.RoleAdmin))

	do := func(header string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		app.ServeHTTP(w, r)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		token, err := a.GenerateToken(3, auth.RoleOperator)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, do("Bearer "+token).Code)
	})

	t.Run("admin", func(t *testing.T) {
		token, err := a.GenerateToken(3, auth.RoleAdmin)
		require.NoError(t, err)
		w := do("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
	})
}
