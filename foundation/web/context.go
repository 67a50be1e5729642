package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the gin context together with the request context that
// middleware may enrich (claims, trace values).
type Context struct {
	*gin.Context
	Ctx context.Context

	paramErrs []FieldError
	queryErrs []FieldError
}

// GetParam reads a path parameter converted to the requested kind. Conversion
// failures are collected and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, key string) interface{} {
	raw := c.Param(key)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.paramErrs = append(c.paramErrs, FieldError{Field: key, Error: "must be an integer"})
			return 0
		}
		return v
	default:
		return raw
	}
}

// ValidParam returns a request error if any GetParam call failed.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return &Error{
		Err:    errors.New("invalid path parameters"),
		Status: http.StatusBadRequest,
		Fields: c.paramErrs,
	}
}

// GetQueryFunc reads an optional query parameter. It returns a typed pointer
// (*int, *string, *bool) or nil when the parameter is absent or invalid.
func (c *Context) GetQueryFunc(kind reflect.Kind, key string) interface{} {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: key, Error: "must be an integer"})
			return nil
		}
		return &v
	case reflect.Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.queryErrs = append(c.queryErrs, FieldError{Field: key, Error: "must be a boolean"})
			return nil
		}
		return &v
	default:
		return &raw
	}
}

// ValidQuery returns a request error if any GetQueryFunc call failed.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return &Error{
		Err:    errors.New("invalid query parameters"),
		Status: http.StatusBadRequest,
		Fields: c.queryErrs,
	}
}

// BindFunc decodes the request body (JSON or form) into data and checks that
// the named struct fields are set.
func (c *Context) BindFunc(data interface{}, required ...string) error {
	if err := c.ShouldBind(data); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	v := reflect.Indirect(reflect.ValueOf(data))
	var fields []FieldError
	for _, name := range required {
		for _, n := range strings.Split(name, ",") {
			f := v.FieldByName(strings.TrimSpace(n))
			if !f.IsValid() {
				continue
			}
			if f.IsZero() {
				fields = append(fields, FieldError{Field: jsonName(v.Type(), n), Error: "is required"})
			}
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// Respond converts a Go value to JSON and sends it to the client.
func (c *Context) Respond(data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return nil
	}

	c.JSON(statusCode, data)
	return nil
}

// RespondText sends a plain text body.
func (c *Context) RespondText(text string, statusCode int) error {
	c.String(statusCode, text)
	return nil
}

// RespondFile sends raw bytes as an attachment.
func (c *Context) RespondFile(data []byte, contentType, filename string) error {
	if filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.Data(http.StatusOK, contentType, data)
	return nil
}

// RespondError sends an error response back to the client and returns the
// error so the App can log it.
func (c *Context) RespondError(err error) error {
	var custom Responder
	if errors.As(err, &custom) {
		c.JSON(custom.StatusCode(), custom.Body())
		return err
	}

	if webErr, ok := asRequestError(err); ok {
		c.JSON(webErr.Status, ErrorResponse{
			Error:  webErr.Err.Error(),
			Fields: webErr.Fields,
			Status: false,
		})
		return err
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:  http.StatusText(http.StatusInternalServerError),
		Status: false,
	})
	return err
}

func jsonName(t reflect.Type, field string) string {
	sf, ok := t.FieldByName(strings.TrimSpace(field))
	if !ok {
		return field
	}
	tag := strings.Split(sf.Tag.Get("json"), ",")[0]
	if tag == "" || tag == "-" {
		return field
	}
	return tag
}
