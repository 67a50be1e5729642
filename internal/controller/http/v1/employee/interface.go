package employee

import (
	"context"
	"mime/multipart"

	"roster/backend/internal/entity"
	"roster/backend/internal/repository/postgres/employee"
	"roster/backend/internal/validation"
)

type Employee interface {
	GetList(ctx context.Context) ([]employee.GetListResponse, error)
	GetAll(ctx context.Context) ([]entity.Employee, error)
	GetDetailById(ctx context.Context, id int) (employee.GetDetailByIdResponse, error)
	Create(ctx context.Context, e entity.Employee) (employee.GetDetailByIdResponse, error)
	Update(ctx context.Context, id int, e entity.Employee) error
	Delete(ctx context.Context, id int) error
}

type Validator interface {
	Validate(ctx context.Context, values map[string]string, rules validation.Rules) error
}

type Importer interface {
	ImportFiles(ctx context.Context, files []*multipart.FileHeader) (int, error)
}

type Flash interface {
	Put(ctx context.Context, userID int, kind, msg string) error
	Pop(ctx context.Context, userID int, kind string) (string, error)
}
