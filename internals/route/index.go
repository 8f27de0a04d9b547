// file: internals/route/index.go
package routes

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	cpRoute "paudku_backend/internals/features/finance/checkpoints/route"
	dashRoute "paudku_backend/internals/features/finance/dashboard/route"
	eventRoute "paudku_backend/internals/features/finance/events/route"
	txRoute "paudku_backend/internals/features/finance/transactions/route"
	attRoute "paudku_backend/internals/features/school/attendance/route"
	raportRoute "paudku_backend/internals/features/school/raports/route"
	studentRoute "paudku_backend/internals/features/school/students/route"
	roleRepo "paudku_backend/internals/features/users/roles/repository"
	roleRoute "paudku_backend/internals/features/users/roles/route"
	helperOSS "paudku_backend/internals/helpers/oss"
	authMiddleware "paudku_backend/internals/middlewares/auth"
	"paudku_backend/internals/realtime"
)

// Deps: semua kolaborator yang dibutuhkan route
type Deps struct {
	DB         *gorm.DB
	JWTSecret  string
	Notifier   realtime.Notifier
	Hub        *realtime.Hub
	Blob       helperOSS.BlobService
	Location   *time.Location
	FeePercent int64
	PerHead    int64
}

var startTime time.Time

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	log := zap.L().Named("routes")

	if d.Notifier == nil {
		d.Notifier = realtime.NopNotifier{}
	}
	if d.Blob == nil {
		d.Blob = helperOSS.DisabledBlobService{}
	}
	if d.Location == nil {
		d.Location = time.UTC
	}

	BaseRoutes(app, d.DB)

	auth := authMiddleware.AuthMiddleware(authMiddleware.Options{
		Secret: d.JWTSecret,
		Roles:  roleRepo.NewUserRoleRepository(d.DB),
	})

	// ===================== GROUPS =====================
	log.Info("Setting up groups...")
	public := app.Group("/api/public")
	me := app.Group("/api/me", auth)
	teacher := app.Group("/api/t",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("mengakses data kelas"), constants.TeacherAndAbove...),
	)
	admin := app.Group("/api/a",
		auth,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("mengelola keuangan"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================
	public.Get("/info", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":              "paudku",
			"timezone":          d.Location.String(),
			"admin_fee_percent": d.FeePercent,
			"fee_per_head":      d.PerHead,
		})
	})

	log.Info("Mounting identity routes...")
	roleRoute.MeRoutes(me, d.DB)
	roleRoute.AdminRoleRoutes(admin, d.DB)

	log.Info("Mounting school routes...")
	studentRoute.TeacherStudentRoutes(teacher, d.DB, d.Notifier)
	studentRoute.AdminStudentRoutes(admin, d.DB, d.Notifier, d.Blob)

	att := attRoute.Deps{DB: d.DB, Notifier: d.Notifier, Hub: d.Hub, Location: d.Location, PerHead: d.PerHead}
	attRoute.TeacherAttendanceRoutes(teacher, att)
	attRoute.AdminAttendanceRoutes(admin, att)

	raportRoute.TeacherRaportRoutes(teacher, d.DB)
	raportRoute.AdminRaportRoutes(admin, d.DB)

	log.Info("Mounting finance routes...")
	txRoute.AdminTransactionRoutes(admin, d.DB, d.Notifier, d.FeePercent)
	eventRoute.AdminEventRoutes(admin, d.DB, d.Notifier, d.FeePercent)
	cpRoute.AdminCheckpointRoutes(admin, d.DB, d.Notifier)
	dashRoute.AdminDashboardRoutes(admin, d.DB, d.Hub, d.Location)
}

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("paudku backend 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err := pingDB(c.UserContext(), db); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
