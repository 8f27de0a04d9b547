// file: internals/features/school/raports/controller/raport_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"paudku_backend/internals/features/school/raports/dto"
	"paudku_backend/internals/features/school/raports/repository"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

type RaportController struct {
	Repo      repository.RaportRepository
	Validator *validator.Validate
}

func NewRaportController(repo repository.RaportRepository) *RaportController {
	return &RaportController{Repo: repo, Validator: validator.New()}
}

// GET /raports?student_id&academic_year&semester
func (ctl *RaportController) List(c *fiber.Ctx) error {
	var f repository.RaportFilter
	if s := strings.TrimSpace(c.Query("student_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id invalid")
		}
		f.StudentID = &id
	}
	f.AcademicYear = c.Query("academic_year")
	if s := strings.TrimSpace(c.Query("semester")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || (n != 1 && n != 2) {
			return helper.JsonError(c, fiber.StatusBadRequest, "semester harus 1 atau 2")
		}
		f.Semester = n
	}

	rows, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonList(c, "Daftar raport", dto.FromModels(rows), nil)
}

func (ctl *RaportController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Detail raport", dto.FromModel(m))
}

// POST /raports (duplikat siswa/tahun/semester → 409)
func (ctl *RaportController) Create(c *fiber.Ctx) error {
	var req dto.CreateRaportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel(helperAuth.ActorID(c))
	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Raport siswa untuk tahun ajaran & semester ini sudah ada")
		}
		return helper.StoreError(c, err)
	}
	return helper.JsonCreated(c, "Raport dibuat", dto.FromModel(m))
}

func (ctl *RaportController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}

	var req dto.PatchRaportRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	for _, e := range req.Entries() {
		if err := ctl.Validator.Struct(&e); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	req.ApplyTo(m, helperAuth.ActorID(c))
	if err := ctl.Repo.Save(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Raport diperbarui", dto.FromModel(m))
}

func (ctl *RaportController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Repo.Delete(c.UserContext(), id); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonDeleted(c, "Raport dihapus", fiber.Map{"raport_id": id})
}
