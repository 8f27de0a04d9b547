// file: internals/features/users/roles/model/user_role_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRoleModel: role per akun. User tanpa baris di sini = guest.
type UserRoleModel struct {
	UserRoleUserID      uuid.UUID  `gorm:"column:user_role_user_id;type:uuid;primaryKey" json:"user_role_user_id"`
	UserRoleRole        string     `gorm:"column:user_role_role;type:varchar(20);not null" json:"user_role_role"`
	UserRoleDisplayName *string    `gorm:"column:user_role_display_name;type:varchar(120)" json:"user_role_display_name,omitempty"`
	UserRoleUpdatedBy   *uuid.UUID `gorm:"column:user_role_updated_by;type:uuid" json:"user_role_updated_by,omitempty"`
	UserRoleCreatedAt   time.Time  `gorm:"column:user_role_created_at;autoCreateTime" json:"user_role_created_at"`
	UserRoleUpdatedAt   time.Time  `gorm:"column:user_role_updated_at;autoUpdateTime" json:"user_role_updated_at"`
}

func (UserRoleModel) TableName() string { return "user_roles" }
