// file: internals/features/finance/checkpoints/route/checkpoint_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	cpController "paudku_backend/internals/features/finance/checkpoints/controller"
	cpRepo "paudku_backend/internals/features/finance/checkpoints/repository"
	"paudku_backend/internals/realtime"
)

func AdminCheckpointRoutes(r fiber.Router, db *gorm.DB, notifier realtime.Notifier) {
	ctl := cpController.NewCheckpointController(cpRepo.NewCheckpointRepository(db, notifier))

	r.Get("/checkpoint", ctl.Get)
	r.Put("/checkpoint", ctl.Put)
}
