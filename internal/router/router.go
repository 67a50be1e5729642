package router

import (
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roster/backend/foundation/web"
	"roster/backend/internal/auth"
	"roster/backend/internal/middleware"
	"roster/backend/internal/pkg/flash"
	"roster/backend/internal/pkg/repository/postgresql"
	"roster/backend/internal/repository/postgres/attendance"
	"roster/backend/internal/repository/postgres/employee"
	"roster/backend/internal/repository/postgres/user"
	"roster/backend/internal/service"
	"roster/backend/internal/service/importer"
	"roster/backend/internal/validation"

	attendance_controller "roster/backend/internal/controller/http/v1/attendance"
	auth_controller "roster/backend/internal/controller/http/v1/auth"
	employee_controller "roster/backend/internal/controller/http/v1/employee"
	file_controller "roster/backend/internal/controller/http/v1/file"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	auth       *auth.Auth
	log        *zap.SugaredLogger
	config     Config
}

type Config struct {
	AllowedOrigins []string
	UploadBaseDir  string
	FlashTTL       time.Duration
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	log *zap.SugaredLogger,
	config Config,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		auth,
		log,
		config,
	}
}

// Init registers the operation table.
func (r Router) Init() {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CorsMiddleware(r.config.AllowedOrigins))

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	employeePostgres := employee.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)

	// - services
	validator := validation.New(r.postgresDB)
	flashStore := flash.NewStore(r.redisDB, r.config.FlashTTL)
	uploader := service.NewUploader(r.config.UploadBaseDir, r.log)
	employeeImporter := importer.New(employeePostgres, validator, uploader, r.log)

	// controller
	authController := auth_controller.NewController(userPostgres, r.auth)
	employeeController := employee_controller.NewController(employeePostgres, validator, employeeImporter, flashStore, r.log)
	attendanceController := attendance_controller.NewController(attendancePostgres, validator)
	fileController := file_controller.NewController(filepath.Join(r.config.UploadBaseDir, importer.Folder))

	authenticated := middleware.Authenticate(r.auth)
	admin := middleware.Authenticate(r.auth, auth.RoleAdmin)

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)

	// #employee
	r.Get("/api/v1/employee/list", employeeController.GetList, authenticated)
	r.Get("/api/v1/employee/create", employeeController.CreateForm, admin)
	r.Post("/api/v1/employee/create", employeeController.Create, admin)
	r.Get("/api/v1/employee/import", employeeController.ImportForm, admin)
	r.Post("/api/v1/employee/import", employeeController.Import, admin)
	r.Get("/api/v1/employee/import/template", employeeController.Template, admin)
	r.Get("/api/v1/employee/import/files/*filepath", fileController.File, admin)
	r.Get("/api/v1/employee/export", employeeController.Export, admin)
	r.Get("/api/v1/employee/export/pdf", employeeController.ExportPDF, admin)
	r.Get("/api/v1/employee/:id/edit", employeeController.Edit, admin)
	r.Put("/api/v1/employee/:id", employeeController.Update, admin)
	r.Delete("/api/v1/employee/:id", employeeController.Delete, admin)

	// #attendance
	r.Post("/api/v1/attendance/create", attendanceController.Create, authenticated)
	r.Get("/api/v1/attendance/list", attendanceController.GetList, authenticated)
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, authenticated)
	r.Get("/api/v1/attendance/:id/qrcode", attendanceController.QRCode, authenticated)
}
