// file: internals/features/school/students/dto/student_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/school/students/model"
	helper "paudku_backend/internals/helpers"
)

/* =========================================================
   REQUEST
   ========================================================= */

type CreateStudentRequest struct {
	StudentDisplayName string  `json:"student_display_name" validate:"required,min=1,max=120"`
	StudentLegalName   *string `json:"student_legal_name"   validate:"omitempty,max=160"`
	StudentClassName   *string `json:"student_class_name"   validate:"omitempty,max=60"`
	StudentNote        *string `json:"student_note"`
}

func (r *CreateStudentRequest) Normalize() {
	r.StudentDisplayName = strings.TrimSpace(r.StudentDisplayName)
	r.StudentLegalName = trimPtr(r.StudentLegalName)
	r.StudentClassName = trimPtr(r.StudentClassName)
	r.StudentNote = trimPtr(r.StudentNote)
}

func (r *CreateStudentRequest) ToModel() *model.StudentModel {
	return &model.StudentModel{
		StudentDisplayName: r.StudentDisplayName,
		StudentLegalName:   r.StudentLegalName,
		StudentClassName:   r.StudentClassName,
		StudentNote:        r.StudentNote,
	}
}

// PATCH: hanya field yang dikirim yang diubah; null = kosongkan.
type PatchStudentRequest struct {
	StudentDisplayName helper.PatchField[string] `json:"student_display_name"`
	StudentLegalName   helper.PatchField[string] `json:"student_legal_name"`
	StudentClassName   helper.PatchField[string] `json:"student_class_name"`
	StudentNote        helper.PatchField[string] `json:"student_note"`
}

// ApplyTo mengembalikan nama field yang invalid (kosong kalau aman).
func (p *PatchStudentRequest) ApplyTo(m *model.StudentModel) (field string, msg string) {
	if p.StudentDisplayName.Set {
		if !p.StudentDisplayName.HasValue() {
			return "student_display_name", "wajib diisi"
		}
		v := strings.TrimSpace(*p.StudentDisplayName.Value)
		if v == "" || len(v) > 120 {
			return "student_display_name", "wajib diisi (maksimal 120 karakter)"
		}
		m.StudentDisplayName = v
	}
	if p.StudentLegalName.Set {
		m.StudentLegalName = trimPtr(p.StudentLegalName.Value)
	}
	if p.StudentClassName.Set {
		m.StudentClassName = trimPtr(p.StudentClassName.Value)
	}
	if p.StudentNote.Set {
		m.StudentNote = trimPtr(p.StudentNote.Value)
	}
	return "", ""
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* =========================================================
   RESPONSE
   ========================================================= */

type StudentResponse struct {
	StudentID          uuid.UUID `json:"student_id"`
	StudentDisplayName string    `json:"student_display_name"`
	StudentLegalName   *string   `json:"student_legal_name,omitempty"`
	StudentClassName   *string   `json:"student_class_name,omitempty"`
	StudentNote        *string   `json:"student_note,omitempty"`
	StudentPhotoURL    *string   `json:"student_photo_url,omitempty"`
	StudentCreatedAt   time.Time `json:"student_created_at"`
	StudentUpdatedAt   time.Time `json:"student_updated_at"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:          m.StudentID,
		StudentDisplayName: m.StudentDisplayName,
		StudentLegalName:   m.StudentLegalName,
		StudentClassName:   m.StudentClassName,
		StudentNote:        m.StudentNote,
		StudentPhotoURL:    m.StudentPhotoURL,
		StudentCreatedAt:   m.StudentCreatedAt,
		StudentUpdatedAt:   m.StudentUpdatedAt,
	}
}

func FromModels(rows []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
