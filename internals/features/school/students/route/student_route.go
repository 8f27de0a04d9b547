// file: internals/features/school/students/route/student_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "paudku_backend/internals/features/school/students/controller"
	studentRepo "paudku_backend/internals/features/school/students/repository"
	helperOSS "paudku_backend/internals/helpers/oss"
	"paudku_backend/internals/middlewares"
	"paudku_backend/internals/realtime"
)

// TeacherStudentRoutes: read-only untuk guru & admin
func TeacherStudentRoutes(r fiber.Router, db *gorm.DB, notifier realtime.Notifier) {
	ctl := studentController.NewStudentController(studentRepo.NewStudentRepository(db, notifier), nil)

	s := r.Group("/students")
	{
		s.Get("/", ctl.List)
		s.Get("/:id", ctl.GetByID)
	}
}

func AdminStudentRoutes(r fiber.Router, db *gorm.DB, notifier realtime.Notifier, blob helperOSS.BlobService) {
	ctl := studentController.NewStudentController(studentRepo.NewStudentRepository(db, notifier), blob)

	s := r.Group("/students")
	{
		s.Post("/", ctl.Create)
		s.Patch("/:id", ctl.Patch)
		s.Delete("/:id", ctl.Delete)
		s.Post("/:id/photo", middlewares.UploadRateLimiter(), ctl.UploadPhoto)
	}
}
