// file: internals/features/school/raports/route/raport_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	raportController "paudku_backend/internals/features/school/raports/controller"
	raportRepo "paudku_backend/internals/features/school/raports/repository"
)

func TeacherRaportRoutes(r fiber.Router, db *gorm.DB) {
	ctl := raportController.NewRaportController(raportRepo.NewRaportRepository(db))

	g := r.Group("/raports")
	{
		g.Get("/", ctl.List)
		g.Post("/", ctl.Create)
		g.Get("/:id", ctl.GetByID)
		g.Patch("/:id", ctl.Patch)
	}
}

func AdminRaportRoutes(r fiber.Router, db *gorm.DB) {
	ctl := raportController.NewRaportController(raportRepo.NewRaportRepository(db))
	r.Delete("/raports/:id", ctl.Delete)
}
