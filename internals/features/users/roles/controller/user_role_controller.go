// file: internals/features/users/roles/controller/user_role_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/roles/dto"
	"paudku_backend/internals/features/users/roles/model"
	"paudku_backend/internals/features/users/roles/repository"
	helper "paudku_backend/internals/helpers"
	helperAuth "paudku_backend/internals/helpers/auth"
)

type UserRoleController struct {
	Repo      repository.UserRoleRepository
	Validator *validator.Validate
}

func NewUserRoleController(repo repository.UserRoleRepository) *UserRoleController {
	return &UserRoleController{Repo: repo, Validator: validator.New()}
}

// GET /api/me
func (ctl *UserRoleController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.Get(c.UserContext(), userID)
	if err != nil {
		return helper.StoreError(c, err)
	}

	name := helperAuth.GetUserName(c)
	if m != nil && m.UserRoleDisplayName != nil && *m.UserRoleDisplayName != "" {
		name = *m.UserRoleDisplayName
	}
	return helper.JsonOK(c, "Profil", dto.MeResponse{
		ID:          userID,
		DisplayName: name,
		Role:        helperAuth.GetRole(c),
	})
}

// GET /roles/:user_id
func (ctl *UserRoleController) Get(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "user_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Repo.Get(c.UserContext(), userID)
	if err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonOK(c, "Role pengguna", dto.FromModel(userID, m, constants.RoleGuest))
}

// PUT /roles/:user_id
func (ctl *UserRoleController) Put(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "user_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PutRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	// admin tidak boleh menurunkan role dirinya sendiri (supaya selalu ada admin)
	if me, err := helperAuth.GetUserIDFromToken(c); err == nil && me == userID && req.Role != constants.RoleAdmin {
		return helper.JsonError(c, fiber.StatusConflict, "Tidak bisa menurunkan role akun sendiri")
	}

	m := &model.UserRoleModel{
		UserRoleUserID:    userID,
		UserRoleRole:      req.Role,
		UserRoleUpdatedBy: helperAuth.ActorID(c),
	}
	if req.DisplayName != nil {
		if v := strings.TrimSpace(*req.DisplayName); v != "" {
			m.UserRoleDisplayName = &v
		}
	}
	if err := ctl.Repo.Upsert(c.UserContext(), m); err != nil {
		return helper.StoreError(c, err)
	}
	return helper.JsonUpdated(c, "Role diperbarui", dto.FromModel(userID, m, constants.RoleGuest))
}
