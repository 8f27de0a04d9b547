// file: internals/features/school/raports/model/raport_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RaportEntry: satu aspek perkembangan (urutan dipertahankan).
type RaportEntry struct {
	Aspect      string `json:"aspect"`
	Score       *int   `json:"score,omitempty"`
	Description string `json:"description"`
}

type RaportModel struct {
	RaportID uuid.UUID `gorm:"column:raport_id;type:uuid;primaryKey" json:"raport_id"`

	// satu raport per siswa per tahun ajaran per semester
	RaportStudentID    uuid.UUID `gorm:"column:raport_student_id;type:uuid;not null;uniqueIndex:uq_raport_student_term,priority:1" json:"raport_student_id"`
	RaportAcademicYear string    `gorm:"column:raport_academic_year;type:varchar(9);not null;uniqueIndex:uq_raport_student_term,priority:2" json:"raport_academic_year"`
	RaportSemester     int       `gorm:"column:raport_semester;not null;uniqueIndex:uq_raport_student_term,priority:3" json:"raport_semester"`

	RaportEntries     datatypes.JSONType[[]RaportEntry] `gorm:"column:raport_entries;type:jsonb;not null" json:"raport_entries"`
	RaportTeacherNote *string                           `gorm:"column:raport_teacher_note;type:text" json:"raport_teacher_note,omitempty"`

	RaportCreatedBy *uuid.UUID `gorm:"column:raport_created_by;type:uuid" json:"raport_created_by,omitempty"`
	RaportUpdatedBy *uuid.UUID `gorm:"column:raport_updated_by;type:uuid" json:"raport_updated_by,omitempty"`
	RaportCreatedAt time.Time  `gorm:"column:raport_created_at;autoCreateTime" json:"raport_created_at"`
	RaportUpdatedAt time.Time  `gorm:"column:raport_updated_at;autoUpdateTime" json:"raport_updated_at"`
}

func (RaportModel) TableName() string { return "raports" }

func (m *RaportModel) BeforeCreate(tx *gorm.DB) error {
	if m.RaportID == uuid.Nil {
		m.RaportID = uuid.New()
	}
	return nil
}

// Entries tidak pernah nil.
func (m RaportModel) Entries() []RaportEntry {
	e := m.RaportEntries.Data()
	if e == nil {
		return []RaportEntry{}
	}
	return e
}
