// file: internals/features/finance/dashboard/route/dashboard_route.go
package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	cpRepo "paudku_backend/internals/features/finance/checkpoints/repository"
	dashController "paudku_backend/internals/features/finance/dashboard/controller"
	dashRepo "paudku_backend/internals/features/finance/dashboard/repository"
	dashService "paudku_backend/internals/features/finance/dashboard/service"
	txRepo "paudku_backend/internals/features/finance/transactions/repository"
	studentRepo "paudku_backend/internals/features/school/students/repository"
	"paudku_backend/internals/realtime"
)

// NewService merangkai service dashboard dari repository (dipakai route & cron).
func NewService(db *gorm.DB) *dashService.Service {
	return dashService.New(
		txRepo.NewTransactionRepository(db, nil),
		cpRepo.NewCheckpointRepository(db, nil),
		studentRepo.NewStudentRepository(db, nil),
	)
}

func AdminDashboardRoutes(r fiber.Router, db *gorm.DB, hub *realtime.Hub, loc *time.Location) {
	ctl := dashController.NewDashboardController(NewService(db), dashRepo.NewSnapshotRepository(db), hub, loc)

	d := r.Group("/dashboard")
	{
		d.Get("/summary", ctl.Summary)
		d.Get("/balances", ctl.Balances)
		d.Get("/cashbox-history", ctl.CashboxHistory)
		d.Post("/cashbox-snapshots", ctl.RunSnapshot)
	}

	r.Get("/students/:id/ledger", ctl.StudentLedger)
	r.Get("/live/transactions", ctl.LiveTransactions)
}
