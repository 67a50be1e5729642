package web_test

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
)

func newApp() *web.App {
	gin.SetMode(gin.TestMode)
	return web.NewApp(zap.NewNop().Sugar())
}

func TestGetParam(t *testing.T) {
	app := newApp()
	app.Get("/item/:id", func(c *web.Context) error {
		id := c.GetParam(reflect.Int, "id").(int)
		if err := c.ValidParam(); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]int{"id": id}, http.StatusOK)
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/item/7", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7}`, w.Body.String())
	})

	t.Run("not an integer", func(t *testing.T) {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/item/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must be an integer")
	})
}

func TestBindFuncRequired(t *testing.T) {
	type request struct {
		Login    string `json:"login" form:"login"`
		Password string `json:"password" form:"password"`
	}

	app := newApp()
	app.Post("/sign-in", func(c *web.Context) error {
		var req request
		if err := c.BindFunc(&req, "Login", "Password"); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(req, http.StatusOK)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(`{"login":"admin"}`))
	r.Header.Set("Content-Type", "application/json")
	app.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"password"`)
	assert.NotContains(t, w.Body.String(), `"field":"login"`)
}

func TestRespondError(t *testing.T) {
	app := newApp()
	app.Get("/missing", func(c *web.Context) error {
		return c.RespondError(web.NewRequestError(errors.New("not found"), http.StatusNotFound))
	})
	app.Get("/boom", func(c *web.Context) error {
		return c.RespondError(errors.New("db is down"))
	})

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found","status":false}`, w.Body.String())

	w = httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db is down")
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	mark := func(name string) web.Middleware {
		return func(next web.Handler) web.Handler {
			return func(c *web.Context) error {
				calls = append(calls, name)
				return next(c)
			}
		}
	}

	gin.SetMode(gin.TestMode)
	app := web.NewApp(zap.NewNop().Sugar(), mark("app"))
	app.Get("/", func(c *web.Context) error {
		calls = append(calls, "handler")
		return c.RespondText("Success", http.StatusOK)
	}, mark("route"))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"app", "route", "handler"}, calls)
	assert.Equal(t, "Success", w.Body.String())
}
