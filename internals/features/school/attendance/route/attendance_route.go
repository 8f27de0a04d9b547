// file: internals/features/school/attendance/route/attendance_route.go
package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	txRepo "paudku_backend/internals/features/finance/transactions/repository"
	attController "paudku_backend/internals/features/school/attendance/controller"
	attRepo "paudku_backend/internals/features/school/attendance/repository"
	attService "paudku_backend/internals/features/school/attendance/service"
	studentRepo "paudku_backend/internals/features/school/students/repository"
	"paudku_backend/internals/realtime"
)

type Deps struct {
	DB       *gorm.DB
	Notifier realtime.Notifier
	Hub      *realtime.Hub
	Location *time.Location
	PerHead  int64
}

func newController(d Deps) *attController.AttendanceController {
	svc := attService.New(
		attRepo.NewAttendanceRepository(d.DB, d.Notifier),
		studentRepo.NewStudentRepository(d.DB, d.Notifier),
		txRepo.NewTransactionRepository(d.DB, d.Notifier),
		d.PerHead,
	)
	return attController.NewAttendanceController(svc, d.Hub, d.Location)
}

// TeacherAttendanceRoutes: guru & admin mengisi dan melihat absensi
func TeacherAttendanceRoutes(r fiber.Router, d Deps) {
	ctl := newController(d)

	a := r.Group("/attendance")
	{
		a.Get("/", ctl.Matrix)
		a.Get("/:date", ctl.GetDay)
		a.Put("/:date", ctl.PutDay)
	}
	r.Get("/live/attendance", ctl.LiveMatrix)
}

func AdminAttendanceRoutes(r fiber.Router, d Deps) {
	ctl := newController(d)
	r.Get("/attendance/fees", ctl.Fees)
}
