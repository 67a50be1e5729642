package employee

import (
	"net/http"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
	"roster/backend/internal/auth"
	"roster/backend/internal/repository/postgres/employee"
	"roster/backend/internal/service/excel"
	"roster/backend/internal/service/report"
	"roster/backend/internal/validation"
)

const flashSuccess = "success"

// pdfColumns is the subset of Fields that fits a landscape page.
var pdfColumns = []string{"name", "national_id", "phone", "age", "job_location", "section", "hired_on", "status"}

type Controller struct {
	employee  Employee
	validator Validator
	importer  Importer
	flash     Flash
	log       *zap.SugaredLogger
}

func NewController(employee Employee, validator Validator, importer Importer, flash Flash, log *zap.SugaredLogger) *Controller {
	return &Controller{employee, validator, importer, flash, log}
}

func (uc Controller) GetList(c *web.Context) error {
	list, err := uc.employee.GetList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"page_title": "All Employees",
		"data":       list,
		"flash":      uc.popFlash(c),
		"status":     true,
	}, http.StatusOK)
}

func (uc Controller) CreateForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"page_title": "Add Employee",
		"data":       employee.Form{},
		"status":     true,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	var request employee.Form

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	if err := uc.validator.Validate(c.Ctx, request.Values(), validation.EmployeeRules(0)); err != nil {
		return c.RespondError(err)
	}

	e, err := request.Entity()
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnprocessableEntity))
	}

	response, err := uc.employee.Create(c.Ctx, e)
	if err != nil {
		return c.RespondError(err)
	}

	msg := "Employee was created successfully!"
	uc.putFlash(c, msg)

	return c.Respond(map[string]interface{}{
		"data":    response,
		"message": msg,
		"status":  true,
	}, http.StatusCreated)
}

func (uc Controller) Edit(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.employee.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"page_title": "Edit Employee",
		"data":       response,
		"status":     true,
	}, http.StatusOK)
}

func (uc Controller) Update(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if _, err := uc.employee.GetDetailById(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	var request employee.Form

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	if err := uc.validator.Validate(c.Ctx, request.Values(), validation.EmployeeRules(id)); err != nil {
		return c.RespondError(err)
	}

	e, err := request.Entity()
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnprocessableEntity))
	}

	if err := uc.employee.Update(c.Ctx, id, e); err != nil {
		return c.RespondError(err)
	}

	msg := "Employee was updated!"
	uc.putFlash(c, msg)

	return c.Respond(map[string]interface{}{
		"message": msg,
		"status":  true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := uc.employee.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}

	return c.RespondText("Success", http.StatusOK)
}

func (uc Controller) ImportForm(c *web.Context) error {
	return c.Respond(map[string]interface{}{
		"page_title": "Import Excel Files",
		"data": map[string]interface{}{
			"fields":     employee.Fields,
			"extensions": excel.Extensions,
		},
		"status": true,
	}, http.StatusOK)
}

// Import reads the multipart "files" field (or "files[]").
func (uc Controller) Import(c *web.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "reading upload"), http.StatusBadRequest))
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["files[]"]
	}

	n, err := uc.importer.ImportFiles(c.Ctx, files)
	if err != nil {
		return c.RespondError(err)
	}

	uc.log.Infow("import finished", "files", len(files), "employees", n)

	return c.RespondText("Success", http.StatusOK)
}

func (uc Controller) Template(c *web.Context) error {
	data, err := excel.Workbook("Employees", employee.Fields, nil)
	if err != nil {
		return c.RespondError(err)
	}

	return c.RespondFile(data, excel.ContentType, "employees_template.xlsx")
}

func (uc Controller) Export(c *web.Context) error {
	employees, err := uc.employee.GetAll(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, employee.Row(e))
	}

	data, err := excel.Workbook("Employees", employee.Fields, rows)
	if err != nil {
		return c.RespondError(err)
	}

	return c.RespondFile(data, excel.ContentType, "employees.xlsx")
}

func (uc Controller) ExportPDF(c *web.Context) error {
	employees, err := uc.employee.GetAll(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	index := make(map[string]int, len(employee.Fields))
	for i, f := range employee.Fields {
		index[f] = i
	}

	headings := make([]string, len(pdfColumns))
	for i, col := range pdfColumns {
		headings[i] = validation.FieldName(col)
	}

	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		full := employee.Row(e)
		row := make([]string, len(pdfColumns))
		for i, col := range pdfColumns {
			row[i] = full[index[col]]
		}
		rows = append(rows, row)
	}

	data, err := report.TablePDF("All Employees", headings, rows)
	if err != nil {
		return c.RespondError(err)
	}

	return c.RespondFile(data, report.PDFContentType, "employees.pdf")
}

// putFlash keeps msg for the next list view. The write has already happened,
// so a flash failure is only logged.
func (uc Controller) putFlash(c *web.Context, msg string) {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return
	}
	if err := uc.flash.Put(c.Ctx, claims.UserId, flashSuccess, msg); err != nil {
		uc.log.Warnw("flash put", "error", err)
	}
}

func (uc Controller) popFlash(c *web.Context) string {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return ""
	}
	msg, err := uc.flash.Pop(c.Ctx, claims.UserId, flashSuccess)
	if err != nil {
		uc.log.Warnw("flash pop", "error", err)
		return ""
	}
	return msg
}
