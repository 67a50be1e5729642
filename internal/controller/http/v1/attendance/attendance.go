package attendance

import (
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"roster/backend/foundation/web"
	"roster/backend/internal/repository/postgres/attendance"
	"roster/backend/internal/service/report"
	"roster/backend/internal/validation"
)

// qrSize is the edge length of the map link QR code in pixels.
const qrSize = 256

type Controller struct {
	attendance Attendance
	validator  Validator
}

func NewController(attendance Attendance, validator Validator) *Controller {
	return &Controller{attendance, validator}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

	if employeeID, ok := c.GetQueryFunc(reflect.Int, "employee_id").(*int); ok {
		filter.EmployeeID = employeeID
	}
	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}
	if err := validPaging(filter); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

// validPaging rejects bounds the database would refuse or silently ignore.
func validPaging(filter attendance.Filter) error {
	var fields []web.FieldError
	if filter.Limit != nil && *filter.Limit < 0 {
		fields = append(fields, web.FieldError{Field: "limit", Error: "must not be negative"})
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		fields = append(fields, web.FieldError{Field: "offset", Error: "must not be negative"})
	}
	if filter.Page != nil && *filter.Page < 1 {
		fields = append(fields, web.FieldError{Field: "page", Error: "must be at least 1"})
	}

	if len(fields) == 0 {
		return nil
	}
	return &web.Error{
		Err:    errors.New("invalid query parameters"),
		Status: http.StatusBadRequest,
		Fields: fields,
	}
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request attendance.CreateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	if err := uc.validator.Validate(c.Ctx, request.Values(), validation.AttendanceRules()); err != nil {
		return c.RespondError(err)
	}

	a, err := request.Entity()
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnprocessableEntity))
	}

	response, err := uc.attendance.Create(c.Ctx, a)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

// QRCode renders the map link of an attendance as a PNG.
func (uc Controller) QRCode(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	png, err := report.QRCode(response.GoogleMapsLink, qrSize)
	if err != nil {
		return c.RespondError(err)
	}

	return c.RespondFile(png, report.PNGContentType, "")
}
