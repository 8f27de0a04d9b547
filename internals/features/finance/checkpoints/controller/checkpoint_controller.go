// file: internals/features/finance/checkpoints/controller/checkpoint_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"paudku_backend/internals/features/finance/checkpoints/dto"
	"paudku_backend/internals/features/finance/checkpoints/model"
	"paudku_backend/internals/features/finance/checkpoints/repository"
	"paudku_backend/internals/features/finance/ledger"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

type CheckpointController struct {
	Repo      repository.CheckpointRepository
	Validator *validator.Validate
}

func NewCheckpointController(repo repository.CheckpointRepository) *CheckpointController {
	return &CheckpointController{Repo: repo, Validator: validator.New()}
}

// GET /checkpoint
func (ctl *CheckpointController) Get(c *fiber.Ctx) error {
	m, err := ctl.Repo.Get(c.UserContext())
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Checkpoint brankas", dto.FromModel(m))
}

// PUT /checkpoint (upsert)
func (ctl *CheckpointController) Put(c *fiber.Ctx) error {
	var req dto.PutCheckpointRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	day, err := ledger.ParseDay(req.Date)
	if err != nil {
		return helper.FieldError(c, "date", "format tanggal YYYY-MM-DD")
	}

	m := &model.CheckpointModel{
		CheckpointAmount:    *req.Amount,
		CheckpointDate:      day,
		CheckpointUpdatedBy: helperAuth.ActorID(c),
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		note := strings.TrimSpace(*req.Note)
		m.CheckpointNote = &note
	}
	if err := ctl.Repo.Upsert(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Checkpoint brankas disimpan", dto.FromModel(m))
}
