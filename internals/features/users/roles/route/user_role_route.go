// file: internals/features/users/roles/route/user_role_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	roleController "paudku_backend/internals/features/users/roles/controller"
	roleRepo "paudku_backend/internals/features/users/roles/repository"
)

// MeRoutes: semua user yang login
func MeRoutes(r fiber.Router, db *gorm.DB) {
	ctl := roleController.NewUserRoleController(roleRepo.NewUserRoleRepository(db))
	r.Get("/", ctl.Me)
}

func AdminRoleRoutes(r fiber.Router, db *gorm.DB) {
	ctl := roleController.NewUserRoleController(roleRepo.NewUserRoleRepository(db))

	g := r.Group("/roles")
	{
		g.Get("/:user_id", ctl.Get)
		g.Put("/:user_id", ctl.Put)
	}
}
