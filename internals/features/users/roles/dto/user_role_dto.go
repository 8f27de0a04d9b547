// file: internals/features/users/roles/dto/user_role_dto.go
package dto

import (
	"github.com/google/uuid"

	"paudku_backend/internals/features/users/roles/model"
)

type PutRoleRequest struct {
	Role        string  `json:"role"         validate:"required,oneof=admin teacher user guest"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=120"`
}

type MeResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

type RoleResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	DisplayName *string   `json:"display_name,omitempty"`
	Assigned    bool      `json:"assigned"` // false → belum ada baris (guest)
}

func FromModel(userID uuid.UUID, m *model.UserRoleModel, fallbackRole string) RoleResponse {
	if m == nil {
		return RoleResponse{UserID: userID, Role: fallbackRole}
	}
	return RoleResponse{
		UserID:      m.UserRoleUserID,
		Role:        m.UserRoleRole,
		DisplayName: m.UserRoleDisplayName,
		Assigned:    true,
	}
}
