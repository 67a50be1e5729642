package attendance

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"roster/backend/foundation/web"
	"roster/backend/internal/entity"
	"roster/backend/internal/pkg/repository/postgresql"
	"roster/backend/internal/repository/postgres"
)

// ErrEmployeeNotFound is returned when an attendance names an unknown employee.
var ErrEmployeeNotFound = errors.New("employee not found")

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Create stores one attendance submitted by the caller.
func (r Repository) Create(ctx context.Context, a entity.Attendance) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	exists, err := r.NewSelect().
		Model((*entity.Employee)(nil)).
		Where("id = ?", a.EmployeeID).
		Exists(ctx)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "checking employee"), http.StatusInternalServerError)
	}
	if !exists {
		return CreateResponse{}, web.NewRequestError(ErrEmployeeNotFound, http.StatusNotFound)
	}

	a.ID = 0
	a.SubmittedBy = claims.UserId
	a.Employee = nil
	a.Submitter = nil

	if _, err := r.NewInsert().Model(&a).Returning("*").Exec(ctx); err != nil {
		if postgresql.SQLState(err) == postgresql.ForeignKeyViolation {
			return CreateResponse{}, web.NewRequestError(ErrEmployeeNotFound, http.StatusNotFound)
		}
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating attendance"), http.StatusInternalServerError)
	}

	return NewResponse(a), nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	var detail entity.Attendance

	err := r.NewSelect().
		Model(&detail).
		Relation("Employee", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Relation("Submitter", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "full_name")
		}).
		Where("attendance.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance detail"), http.StatusInternalServerError)
	}

	return NewResponse(detail), nil
}

// GetList returns one page of attendance, newest first, and the total count
// matching the filter.
func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	var rows []entity.Attendance

	q := r.NewSelect().
		Model(&rows).
		Relation("Employee", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "name")
		}).
		Relation("Submitter", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Column("id", "full_name")
		})

	if filter.EmployeeID != nil {
		q.Where("attendance.employee_id = ?", *filter.EmployeeID)
	}

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting attendance"), http.StatusInternalServerError)
	}

	q.Order("attendance.created_at DESC", "attendance.id DESC")
	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil && *filter.Offset > 0 {
		q.Offset(*filter.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}

	list := make([]GetListResponse, 0, len(rows))
	for _, a := range rows {
		list = append(list, NewResponse(a))
	}

	return list, count, nil
}
