package employee

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"roster/backend/foundation/web"
	"roster/backend/internal/entity"
	"roster/backend/internal/pkg/repository/postgresql"
	"roster/backend/internal/repository/postgres"
	"roster/backend/internal/validation"
)

// NationalIDConstraint is the unique index backing the application check.
const NationalIDConstraint = "uq_employees_national_id"

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context) ([]GetListResponse, error) {
	employees, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]GetListResponse, 0, len(employees))
	for _, e := range employees {
		list = append(list, NewResponse(e))
	}

	return list, nil
}

// GetAll returns the roster entities, used by the exports.
func (r Repository) GetAll(ctx context.Context) ([]entity.Employee, error) {
	var employees []entity.Employee

	if err := r.NewSelect().Model(&employees).Order("id ASC").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting employees"), http.StatusInternalServerError)
	}

	return employees, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting employee detail"), http.StatusInternalServerError)
	}

	return NewResponse(detail), nil
}

func (r Repository) Create(ctx context.Context, e entity.Employee) (GetDetailByIdResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	e.ID = 0
	e.CreatedBy = &claims.UserId

	if _, err := r.NewInsert().Model(&e).Returning("*").Exec(ctx); err != nil {
		return GetDetailByIdResponse{}, mapRepositoryError(err, "creating employee")
	}

	return NewResponse(e), nil
}

// CreateMany inserts all employees in one transaction; either every row is
// stored or none is.
func (r Repository) CreateMany(ctx context.Context, employees []entity.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	for i := range employees {
		employees[i].ID = 0
		employees[i].CreatedBy = &claims.UserId
	}

	err = r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&employees).Exec(ctx)
		return err
	})
	if err != nil {
		return mapRepositoryError(err, "importing employees")
	}

	return nil
}

func (r Repository) Update(ctx context.Context, id int, e entity.Employee) error {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	e.ID = id
	e.UpdatedAt = &now
	e.UpdatedBy = &claims.UserId

	res, err := r.NewUpdate().
		Model(&e).
		ExcludeColumn("id", "created_at", "created_by").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapRepositoryError(err, "updating employee")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating employee")
	}
	if n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	err := r.DeleteRow(ctx, "employees", id)
	if postgresql.SQLState(err) == postgresql.ForeignKeyViolation {
		return web.NewRequestError(errors.New("employee has attendance records"), http.StatusConflict)
	}
	return err
}

// mapRepositoryError turns a national_id unique violation into the same
// validation failure the create and update forms report.
func mapRepositoryError(err error, op string) error {
	if postgresql.SQLState(err) == postgresql.UniqueViolation &&
		postgresql.ConstraintName(err) == NationalIDConstraint {
		verr := &validation.Error{}
		verr.Add("national_id", "The National Id has already been taken.")
		return verr
	}

	return web.NewRequestError(errors.Wrap(err, op), http.StatusInternalServerError)
}
