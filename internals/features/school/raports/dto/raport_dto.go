// file: internals/features/school/raports/dto/raport_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"paudku_backend/internals/features/school/raports/model"
	helper "paudku_backend/internals/helpers"
)

type RaportEntryInput struct {
	Aspect      string `json:"aspect"      validate:"required,max=120"`
	Score       *int   `json:"score"       validate:"omitempty,min=0,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

func toEntries(in []RaportEntryInput) []model.RaportEntry {
	out := make([]model.RaportEntry, 0, len(in))
	for _, e := range in {
		out = append(out, model.RaportEntry{
			Aspect:      strings.TrimSpace(e.Aspect),
			Score:       e.Score,
			Description: strings.TrimSpace(e.Description),
		})
	}
	return out
}

/* =========================================================
   REQUEST
   ========================================================= */

type CreateRaportRequest struct {
	RaportStudentID    uuid.UUID          `json:"raport_student_id"    validate:"required"`
	RaportAcademicYear string             `json:"raport_academic_year" validate:"required,len=9"` // "2024/2025"
	RaportSemester     int                `json:"raport_semester"      validate:"required,oneof=1 2"`
	RaportEntries      []RaportEntryInput `json:"raport_entries"       validate:"dive"`
	RaportTeacherNote  *string            `json:"raport_teacher_note"`
}

func (r *CreateRaportRequest) ToModel(actor *uuid.UUID) *model.RaportModel {
	return &model.RaportModel{
		RaportStudentID:    r.RaportStudentID,
		RaportAcademicYear: strings.TrimSpace(r.RaportAcademicYear),
		RaportSemester:     r.RaportSemester,
		RaportEntries:      datatypes.NewJSONType(toEntries(r.RaportEntries)),
		RaportTeacherNote:  trimPtr(r.RaportTeacherNote),
		RaportCreatedBy:    actor,
		RaportUpdatedBy:    actor,
	}
}

// PATCH: siswa/tahun/semester tidak bisa diubah; entries diganti utuh.
type PatchRaportRequest struct {
	RaportEntries     helper.PatchField[[]RaportEntryInput] `json:"raport_entries"`
	RaportTeacherNote helper.PatchField[string]             `json:"raport_teacher_note"`
}

// Entries untuk divalidasi (nil kalau tidak dikirim).
func (p *PatchRaportRequest) Entries() []RaportEntryInput {
	if !p.RaportEntries.HasValue() {
		return nil
	}
	return *p.RaportEntries.Value
}

func (p *PatchRaportRequest) ApplyTo(m *model.RaportModel, actor *uuid.UUID) {
	if p.RaportEntries.Set {
		m.RaportEntries = datatypes.NewJSONType(toEntries(p.Entries()))
	}
	if p.RaportTeacherNote.Set {
		m.RaportTeacherNote = trimPtr(p.RaportTeacherNote.Value)
	}
	m.RaportUpdatedBy = actor
}

/* =========================================================
   RESPONSE
   ========================================================= */

type RaportResponse struct {
	RaportID           uuid.UUID           `json:"raport_id"`
	RaportStudentID    uuid.UUID           `json:"raport_student_id"`
	RaportAcademicYear string              `json:"raport_academic_year"`
	RaportSemester     int                 `json:"raport_semester"`
	RaportEntries      []model.RaportEntry `json:"raport_entries"`
	RaportTeacherNote  *string             `json:"raport_teacher_note,omitempty"`
	RaportCreatedAt    time.Time           `json:"raport_created_at"`
	RaportUpdatedAt    time.Time           `json:"raport_updated_at"`
}

func FromModel(m *model.RaportModel) RaportResponse {
	return RaportResponse{
		RaportID:           m.RaportID,
		RaportStudentID:    m.RaportStudentID,
		RaportAcademicYear: m.RaportAcademicYear,
		RaportSemester:     m.RaportSemester,
		RaportEntries:      m.Entries(),
		RaportTeacherNote:  m.RaportTeacherNote,
		RaportCreatedAt:    m.RaportCreatedAt,
		RaportUpdatedAt:    m.RaportUpdatedAt,
	}
}

func FromModels(rows []model.RaportModel) []RaportResponse {
	out := make([]RaportResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
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
