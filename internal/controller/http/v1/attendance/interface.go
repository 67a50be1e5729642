package attendance

import (
	"context"

	"roster/backend/internal/entity"
	"roster/backend/internal/repository/postgres/attendance"
	"roster/backend/internal/validation"
)

type Attendance interface {
	GetList(ctx context.Context, filter attendance.Filter) ([]attendance.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (attendance.GetDetailByIdResponse, error)
	Create(ctx context.Context, a entity.Attendance) (attendance.CreateResponse, error)
}

type Validator interface {
	Validate(ctx context.Context, values map[string]string, rules validation.Rules) error
}
