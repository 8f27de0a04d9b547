package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	cpModel "paudku_backend/internals/features/finance/checkpoints/model"
	dashModel "paudku_backend/internals/features/finance/dashboard/model"
	eventModel "paudku_backend/internals/features/finance/events/model"
	txModel "paudku_backend/internals/features/finance/transactions/model"
	attModel "paudku_backend/internals/features/school/attendance/model"
	raportModel "paudku_backend/internals/features/school/raports/model"
	studentModel "paudku_backend/internals/features/school/students/model"
	roleModel "paudku_backend/internals/features/users/roles/model"
)

// Models: seluruh tabel yang dikelola service ini
func Models() []any {
	return []any{
		&studentModel.StudentModel{},
		&txModel.TransactionModel{},
		&eventModel.EventModel{},
		&cpModel.CheckpointModel{},
		&dashModel.CashboxSnapshotModel{},
		&attModel.AttendanceDayModel{},
		&raportModel.RaportModel{},
		&roleModel.UserRoleModel{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	zap.L().Info("✅ AutoMigrate selesai", zap.Int("tables", len(Models())))
	return nil
}
