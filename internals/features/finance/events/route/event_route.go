// file: internals/features/finance/events/route/event_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventController "paudku_backend/internals/features/finance/events/controller"
	eventRepo "paudku_backend/internals/features/finance/events/repository"
	txRepo "paudku_backend/internals/features/finance/transactions/repository"
	"paudku_backend/internals/realtime"
)

func AdminEventRoutes(r fiber.Router, db *gorm.DB, notifier realtime.Notifier, feePercent int64) {
	ctl := eventController.NewEventController(
		eventRepo.NewEventRepository(db, notifier),
		txRepo.NewTransactionRepository(db, notifier),
		feePercent,
	)

	ev := r.Group("/events")
	{
		ev.Get("/", ctl.List)
		ev.Post("/", ctl.Create)
		ev.Get("/:id", ctl.GetByID)
		ev.Patch("/:id", ctl.Patch)
		ev.Delete("/:id", ctl.Delete)
		ev.Post("/:id/payments", ctl.Pay)
	}
}
