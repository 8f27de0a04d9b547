// file: internals/features/finance/checkpoints/dto/checkpoint_dto.go
package dto

import (
	"time"

	"paudku_backend/internals/features/finance/checkpoints/model"
	"paudku_backend/internals/features/finance/ledger"
)

type PutCheckpointRequest struct {
	Amount *int64  `json:"amount" validate:"required,min=0,max=1000000000000"`
	Date   string  `json:"date"   validate:"required,datetime=2006-01-02"`
	Note   *string `json:"note"   validate:"omitempty,max=500"`
}

type CheckpointResponse struct {
	Exists    bool       `json:"exists"`
	Amount    int64      `json:"amount"`
	Date      *string    `json:"date"`
	Note      *string    `json:"note,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FromModel: nil → checkpoint kosong (amount 0, tanpa tanggal).
func FromModel(m *model.CheckpointModel) CheckpointResponse {
	if m == nil {
		return CheckpointResponse{}
	}
	d := ledger.DayKey(m.CheckpointDate)
	updated := m.CheckpointUpdatedAt
	return CheckpointResponse{
		Exists:    true,
		Amount:    m.CheckpointAmount,
		Date:      &d,
		Note:      m.CheckpointNote,
		UpdatedAt: &updated,
	}
}
