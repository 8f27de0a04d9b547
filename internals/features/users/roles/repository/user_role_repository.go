// file: internals/features/users/roles/repository/user_role_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/roles/model"
)

type UserRoleRepository interface {
	// Get: belum ada baris → (nil, nil)
	Get(ctx context.Context, userID uuid.UUID) (*model.UserRoleModel, error)
	// RoleOf: belum ada baris → guest
	RoleOf(ctx context.Context, userID uuid.UUID) (string, error)
	Upsert(ctx context.Context, m *model.UserRoleModel) error
}

type userRoleRepository struct{ db *gorm.DB }

func NewUserRoleRepository(db *gorm.DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

func (r *userRoleRepository) Get(ctx context.Context, userID uuid.UUID) (*model.UserRoleModel, error) {
	var m model.UserRoleModel
	err := r.db.WithContext(ctx).First(&m, "user_role_user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *userRoleRepository) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	m, err := r.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if m == nil || !constants.IsKnownRole(m.UserRoleRole) {
		return constants.RoleGuest, nil
	}
	return m.UserRoleRole, nil
}

func (r *userRoleRepository) Upsert(ctx context.Context, m *model.UserRoleModel) error {
	m.UserRoleUpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_role_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_role_role",
			"user_role_display_name",
			"user_role_updated_by",
			"user_role_updated_at",
		}),
	}).Create(m).Error
}
