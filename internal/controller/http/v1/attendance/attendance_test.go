package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
	controller "roster/backend/internal/controller/http/v1/attendance"
	"roster/backend/internal/entity"
	"roster/backend/internal/repository/postgres"
	"roster/backend/internal/repository/postgres/attendance"
	"roster/backend/internal/validation"
)

type fakeAttendance struct {
	rows    map[int]entity.Attendance
	created []entity.Attendance
	filter  attendance.Filter
	lists   int
}

func (f *fakeAttendance) GetList(_ context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error) {
	f.filter = filter
	f.lists++
	var list []attendance.GetListResponse
	for _, a := range f.rows {
		list = append(list, attendance.NewResponse(a))
	}
	return list, len(list), nil
}

func (f *fakeAttendance) GetDetailById(_ context.Context, id int) (attendance.GetDetailByIdResponse, error) {
	a, ok := f.rows[id]
	if !ok {
		return attendance.GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	return attendance.NewResponse(a), nil
}

func (f *fakeAttendance) Create(_ context.Context, a entity.Attendance) (attendance.CreateResponse, error) {
	a.ID = 9
	f.created = append(f.created, a)
	return attendance.NewResponse(a), nil
}

type noStore struct{}

func (noStore) Exists(context.Context, string, string, string, int) (bool, error) { return false, nil }

func setup(t *testing.T) (*web.App, *fakeAttendance) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lat, lon := 30.0444, 31.2357
	repo := &fakeAttendance{rows: map[int]entity.Attendance{
		3: {ID: 3, EmployeeID: 4, Latitude: &lat, Longitude: &lon},
	}}

	app := web.NewApp(zap.NewNop().Sugar())
	c := controller.NewController(repo, validation.New(noStore{}))
	app.Get("/attendance/list", c.GetList)
	app.Get("/attendance/:id", c.GetDetailById)
	app.Get("/attendance/:id/qrcode", c.QRCode)
	app.Post("/attendance/create", c.Create)

	return app, repo
}

func serve(app *web.App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	app, repo := setup(t)

	v := url.Values{"employee_id": {"4"}, "latitude": {"30.0444"}, "longitude": {"31.2357"}}
	req := httptest.NewRequest(http.MethodPost, "/attendance/create", strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := serve(app, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, repo.created, 1)

	var body struct {
		Data struct {
			GoogleMapsLink string `json:"google_maps_link"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=30.0444,31.2357", body.Data.GoogleMapsLink)
}

func TestCreateInvalid(t *testing.T) {
	app, repo := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/attendance/create", strings.NewReader(`{"latitude":"north"}`))
	req.Header.Set("Content-Type", "application/json")

	w := serve(app, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "employee_id")
	assert.Empty(t, repo.created)
}

func TestGetList(t *testing.T) {
	app, repo := setup(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/attendance/list?employee_id=4&page=2&limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.filter.EmployeeID)
	assert.Equal(t, 4, *repo.filter.EmployeeID)
	assert.Equal(t, 2, *repo.filter.Page)

	w = serve(app, httptest.NewRequest(http.MethodGet, "/attendance/list?employee_id=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListRejectsPagingBounds(t *testing.T) {
	for _, query := range []string{"limit=-1", "offset=-5", "page=0&limit=5", "page=-2"} {
		t.Run(query, func(t *testing.T) {
			app, repo := setup(t)

			w := serve(app, httptest.NewRequest(http.MethodGet, "/attendance/list?"+query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Zero(t, repo.lists)
		})
	}
}

func TestGetDetailById(t *testing.T) {
	app, _ := setup(t)

	assert.Equal(t, http.StatusOK, serve(app, httptest.NewRequest(http.MethodGet, "/attendance/3", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(app, httptest.NewRequest(http.MethodGet, "/attendance/8", nil)).Code)
}

func TestQRCode(t *testing.T) {
	app, _ := setup(t)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/attendance/3/qrcode", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}
