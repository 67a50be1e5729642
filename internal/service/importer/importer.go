// Package importer turns uploaded roster spreadsheets into employees.
package importer

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
	"roster/backend/internal/entity"
	"roster/backend/internal/repository/postgres/employee"
	"roster/backend/internal/service"
	"roster/backend/internal/service/excel"
	"roster/backend/internal/validation"
)

// Folder is where uploads are kept, relative to the upload base dir.
const Folder = "imports"

type Store interface {
	CreateMany(ctx context.Context, employees []entity.Employee) error
}

type Validator interface {
	Validate(ctx context.Context, values map[string]string, rules validation.Rules) error
}

type Uploader interface {
	Upload(file *multipart.FileHeader, folder string, extensions, contentTypes []string) (string, error)
}

type Importer struct {
	store     Store
	validator Validator
	uploader  Uploader
	log       *zap.SugaredLogger
}

func New(store Store, validator Validator, uploader Uploader, log *zap.SugaredLogger) *Importer {
	return &Importer{store: store, validator: validator, uploader: uploader, log: log}
}

// ImportFiles imports files one after the other. Each file is committed on
// its own; the first failing file stops the run and earlier files stay stored.
func (i *Importer) ImportFiles(ctx context.Context, files []*multipart.FileHeader) (int, error) {
	if len(files) == 0 {
		return 0, web.NewRequestError(errors.New("no files uploaded"), http.StatusBadRequest)
	}

	total := 0
	for _, fh := range files {
		path, err := i.uploader.Upload(fh, Folder, excel.Extensions, service.SpreadsheetContentTypes)
		if err != nil {
			if errors.Is(err, service.ErrInvalidFileType) {
				return total, web.NewRequestError(err, http.StatusUnprocessableEntity)
			}
			return total, web.NewRequestError(errors.Wrap(err, "storing upload"), http.StatusInternalServerError)
		}

		n, err := i.ImportFile(ctx, fh.Filename, path)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

// ImportFile validates every row of the file at path and stores all of them
// in one transaction, or none.
func (i *Importer) ImportFile(ctx context.Context, name, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusInternalServerError)
	}
	defer f.Close()

	rows, err := excel.ReadRows(f, name)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrapf(err, "reading %s", name), http.StatusUnprocessableEntity)
	}

	records, err := excel.Records(rows)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrapf(err, "reading %s", name), http.StatusUnprocessableEntity)
	}

	employees, err := i.convert(ctx, name, records)
	if err != nil {
		return 0, err
	}

	if err := i.store.CreateMany(ctx, employees); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return 0, &Error{File: name, Rows: map[int]map[string][]string{0: verr.Fields}}
		}
		return 0, err
	}

	i.log.Infow("employees imported", "file", name, "rows", len(employees))

	return len(employees), nil
}

// convert validates records with the employee rule set and rejects national
// ids repeated inside the file. hired_on is read from a date serial only when
// the workbook stored the cell as a number; text must be DD/MM/YYYY.
func (i *Importer) convert(ctx context.Context, name string, records []excel.Record) ([]entity.Employee, error) {
	ierr := &Error{File: name, Rows: map[int]map[string][]string{}}
	seen := make(map[string]int, len(records))
	employees := make([]entity.Employee, 0, len(records))

	for _, rec := range records {
		if rec.Numeric["hired_on"] {
			if text, ok := excel.SerialDate(rec.Values["hired_on"], validation.DateFormat); ok {
				rec.Values["hired_on"] = text
			}
		}

		form := employee.FormFromValues(rec.Values)

		err := i.validator.Validate(ctx, form.Values(), validation.EmployeeRules(0))
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			ierr.Rows[rec.Row] = verr.Fields
		case err != nil:
			return nil, err
		}

		nationalID := strings.TrimSpace(form.NationalID)
		if first, ok := seen[nationalID]; ok && nationalID != "" {
			ierr.add(rec.Row, "national_id", fmt.Sprintf("The National Id is repeated, first seen on row %d.", first))
		} else if nationalID != "" {
			seen[nationalID] = rec.Row
		}

		if len(ierr.Rows) > 0 {
			continue
		}

		e, err := form.Entity()
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", rec.Row)
		}
		employees = append(employees, e)
	}

	if len(ierr.Rows) > 0 {
		i.log.Infow("import rejected", "file", name, "rows", ierr.RowNumbers())
		return nil, ierr
	}

	return employees, nil
}

// Error lists the failed constraints of an import file by row and field.
// Row 0 holds failures that could not be tied to a row.
type Error struct {
	File string
	Rows map[int]map[string][]string
}

func (e *Error) add(row int, field, msg string) {
	if e.Rows[row] == nil {
		e.Rows[row] = map[string][]string{}
	}
	e.Rows[row][field] = append(e.Rows[row][field], msg)
}

// RowNumbers returns the failed rows in ascending order.
func (e *Error) RowNumbers() []int {
	rows := make([]int, 0, len(e.Rows))
	for r := range e.Rows {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}

func (e *Error) Error() string {
	rows := e.RowNumbers()
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return fmt.Sprintf("import of %s failed on rows %s", e.File, strings.Join(parts, ", "))
}

func (e *Error) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func (e *Error) Body() interface{} {
	return map[string]interface{}{
		"error":  "The given data was invalid.",
		"file":   e.File,
		"rows":   e.Rows,
		"status": false,
	}
}
