// file: internals/features/school/attendance/model/attendance_day_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"paudku_backend/internals/features/finance/ledger"
)

// StatusMap: student_id → status. Disimpan sebagai kode ("present_paid", "sick", ...).
type StatusMap = map[string]ledger.AttendanceStatus

// AttendanceDayModel: satu baris per hari; seluruh status hari itu dalam satu JSON.
type AttendanceDayModel struct {
	AttendanceDate      time.Time                     `gorm:"column:attendance_date;type:date;primaryKey" json:"attendance_date"`
	AttendanceStatuses  datatypes.JSONType[StatusMap] `gorm:"column:attendance_statuses;type:jsonb;not null" json:"attendance_statuses"`
	AttendanceUpdatedBy *uuid.UUID                    `gorm:"column:attendance_updated_by;type:uuid" json:"attendance_updated_by,omitempty"`
	AttendanceCreatedAt time.Time                     `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time                     `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceDayModel) TableName() string { return "attendance_days" }

// Statuses tidak pernah nil.
func (m AttendanceDayModel) Statuses() StatusMap {
	s := m.AttendanceStatuses.Data()
	if s == nil {
		return StatusMap{}
	}
	return s
}
