// file: internals/features/finance/checkpoints/model/checkpoint_model.go
package model

import (
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
)

// SingletonID: tabel hanya punya satu baris (hitungan brankas terakhir).
const SingletonID = 1

type CheckpointModel struct {
	CheckpointID        int        `gorm:"column:checkpoint_id;primaryKey;autoIncrement:false" json:"-"`
	CheckpointAmount    int64      `gorm:"column:checkpoint_amount;not null" json:"checkpoint_amount"`
	CheckpointDate      time.Time  `gorm:"column:checkpoint_date;type:date;not null" json:"checkpoint_date"`
	CheckpointNote      *string    `gorm:"column:checkpoint_note;type:text" json:"checkpoint_note,omitempty"`
	CheckpointUpdatedBy *uuid.UUID `gorm:"column:checkpoint_updated_by;type:uuid" json:"checkpoint_updated_by,omitempty"`
	CheckpointUpdatedAt time.Time  `gorm:"column:checkpoint_updated_at;autoUpdateTime" json:"checkpoint_updated_at"`
}

func (CheckpointModel) TableName() string { return "cash_checkpoints" }

func (m CheckpointModel) ToLedger() ledger.Checkpoint {
	return ledger.Checkpoint{Amount: m.CheckpointAmount, Date: ledger.Day(m.CheckpointDate)}
}
