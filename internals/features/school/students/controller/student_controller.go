// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/school/students/dto"
	"paudku_backend/internals/features/school/students/repository"
	helper "paudku_backend/internals/helpers"
	helperOSS "paudku_backend/internals/helpers/oss"
)

const photoDir = "students/photos"

type StudentController struct {
	Repo      repository.StudentRepository
	Blob      helperOSS.BlobService
	Validator *validator.Validate
}

func NewStudentController(repo repository.StudentRepository, blob helperOSS.BlobService) *StudentController {
	if blob == nil {
		blob = helperOSS.DisabledBlobService{}
	}
	return &StudentController{Repo: repo, Blob: blob, Validator: validator.New()}
}

/* =========================
   READ
   ========================= */

// GET /students?q=&class_name=&page=&per_page=
func (ctl *StudentController) List(c *fiber.Ctx) error {
	f := repository.StudentFilter{
		Q:         c.Query("q"),
		ClassName: c.Query("class_name"),
	}
	paging, paged := helper.ResolvePaging(c, 20, 200)
	if paged {
		f.Offset, f.Limit = paging.Offset, paging.Limit
	}

	rows, total, err := ctl.Repo.List(c.UserContext(), f)
	if err != nil {
		return helper.StoreError(c, err)
	}

	var pg *helper.Pagination
	if paged {
		p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
		p.Count = len(rows)
		pg = &p
	}
	return helper.JsonList(c, "Daftar siswa", dto.FromModels(rows), pg)
}

// GET /students/:id
func (ctl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Detail siswa", dto.FromModel(m))
}

/* =========================
   WRITE (admin)
   ========================= */

func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := ctl.Repo.Create(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonCreated(c, "Siswa ditambahkan", dto.FromModel(m))
}

func (ctl *StudentController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}

	var req dto.PatchStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if field, msg := req.ApplyTo(m); field != "" {
		return helper.FieldError(c, field, msg)
	}

	if err := ctl.Repo.Save(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Siswa diperbarui", dto.FromModel(m))
}

func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}
	if err := ctl.Repo.Delete(c.UserContext(), id); err != nil {
		return helper.StoreError(c, err)
	}
	if m.StudentPhotoObjectKey != nil {
		if err := ctl.Blob.DeleteObject(c.UserContext(), *m.StudentPhotoObjectKey); err != nil {
			zap.L().Warn("delete student photo failed", zap.String("key", *m.StudentPhotoObjectKey), zap.Error(err))
		}
	}
	return helper.JsonDeleted(c, "Siswa dihapus", fiber.Map{"student_id": id})
}

// POST /students/:id/photo (multipart, field "photo")
func (ctl *StudentController) UploadPhoto(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return helper.StoreError(c, err)
	}

	fh, err := helperOSS.GetImageFile(c, "photo")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if fh == nil {
		return helper.FieldError(c, "photo", "wajib diisi")
	}
	if !constants.IsImageFile(fh.Filename) {
		return helper.FieldError(c, "photo", "harus file gambar (png/jpg/webp/heic)")
	}

	url, key, err := ctl.Blob.UploadToDir(c.UserContext(), photoDir, fh)
	if err != nil {
		if errors.Is(err, helperOSS.ErrBlobDisabled) {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
		}
		return helper.JsonError(c, fiber.StatusBadGateway, "Upload foto gagal: "+err.Error())
	}

	oldKey := m.StudentPhotoObjectKey
	m.StudentPhotoURL = &url
	m.StudentPhotoObjectKey = &key
	if err := ctl.Repo.Save(c.UserContext(), m); err != nil {
		_ = ctl.Blob.DeleteObject(c.UserContext(), key)
		return helper.StoreError(c, err)
	}
	if oldKey != nil && *oldKey != key {
		if err := ctl.Blob.DeleteObject(c.UserContext(), *oldKey); err != nil {
			zap.L().Warn("delete old student photo failed", zap.String("key", *oldKey), zap.Error(err))
		}
	}
	return helper.JsonUpdated(c, "Foto siswa diperbarui", dto.FromModel(m))
}
