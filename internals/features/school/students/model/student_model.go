// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	// nama panggilan (dipakai di semua tampilan)
	StudentDisplayName string  `gorm:"column:student_display_name;type:varchar(120);not null" json:"student_display_name"`
	StudentLegalName   *string `gorm:"column:student_legal_name;type:varchar(160)" json:"student_legal_name,omitempty"`
	StudentClassName   *string `gorm:"column:student_class_name;type:varchar(60)" json:"student_class_name,omitempty"`
	StudentNote        *string `gorm:"column:student_note;type:text" json:"student_note,omitempty"`

	// foto (OSS)
	StudentPhotoURL       *string `gorm:"column:student_photo_url;type:text" json:"student_photo_url,omitempty"`
	StudentPhotoObjectKey *string `gorm:"column:student_photo_object_key;type:text" json:"-"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
