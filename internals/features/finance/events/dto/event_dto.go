// file: internals/features/finance/events/dto/event_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/events/model"
	"paudku_backend/internals/features/finance/ledger"
	helper "paudku_backend/internals/helpers"
)

/* =========================================================
   REQUEST: Create / Patch
   ========================================================= */

type CreateEventRequest struct {
	EventName        string  `json:"event_name"        validate:"required,min=1,max=160"`
	EventNominal     int64   `json:"event_nominal"     validate:"required,gt=0,max=1000000000000"`
	EventDate        *string `json:"event_date"        validate:"omitempty,datetime=2006-01-02"`
	EventDescription *string `json:"event_description"`
	EventIsActive    *bool   `json:"event_is_active"`
}

func (r *CreateEventRequest) ToModel() (*model.EventModel, error) {
	m := &model.EventModel{
		EventName:        strings.TrimSpace(r.EventName),
		EventNominal:     r.EventNominal,
		EventDescription: trimPtr(r.EventDescription),
		EventIsActive:    true,
	}
	if r.EventIsActive != nil {
		m.EventIsActive = *r.EventIsActive
	}
	if r.EventDate != nil && strings.TrimSpace(*r.EventDate) != "" {
		d, err := ledger.ParseDay(*r.EventDate)
		if err != nil {
			return nil, err
		}
		m.EventDate = &d
	}
	return m, nil
}

type PatchEventRequest struct {
	EventName        helper.PatchField[string] `json:"event_name"`
	EventNominal     helper.PatchField[int64]  `json:"event_nominal"`
	EventDate        helper.PatchField[string] `json:"event_date"`
	EventDescription helper.PatchField[string] `json:"event_description"`
	EventIsActive    helper.PatchField[bool]   `json:"event_is_active"`
}

func (p *PatchEventRequest) ApplyTo(m *model.EventModel) (string, string) {
	if p.EventName.Set {
		if !p.EventName.HasValue() || strings.TrimSpace(*p.EventName.Value) == "" {
			return "event_name", "wajib diisi"
		}
		m.EventName = strings.TrimSpace(*p.EventName.Value)
	}
	if p.EventNominal.Set {
		if !p.EventNominal.HasValue() || *p.EventNominal.Value <= 0 {
			return "event_nominal", "harus lebih dari 0"
		}
		if *p.EventNominal.Value > ledger.MaxAmount {
			return "event_nominal", "maksimal 1000000000000"
		}
		m.EventNominal = *p.EventNominal.Value
	}
	if p.EventDate.Set {
		if !p.EventDate.HasValue() {
			m.EventDate = nil
		} else {
			d, err := ledger.ParseDay(*p.EventDate.Value)
			if err != nil {
				return "event_date", "format tanggal YYYY-MM-DD"
			}
			m.EventDate = &d
		}
	}
	if p.EventDescription.Set {
		m.EventDescription = trimPtr(p.EventDescription.Value)
	}
	if p.EventIsActive.Set {
		if !p.EventIsActive.HasValue() {
			return "event_is_active", "tidak boleh null"
		}
		m.EventIsActive = *p.EventIsActive.Value
	}
	return "", ""
}

/* =========================================================
   REQUEST: Payments (satu transaksi per siswa, satu DB tx)
   ========================================================= */

type EventPaymentRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,dive,required"`
	Method     string      `json:"method"      validate:"required,oneof=balance cash"`
	Date       string      `json:"date"        validate:"required,datetime=2006-01-02"`
	Note       *string     `json:"note"        validate:"omitempty,max=500"`
}

// UniqueStudentIDs: urutan dipertahankan, duplikat dibuang.
func (r *EventPaymentRequest) UniqueStudentIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.StudentIDs))
	out := make([]uuid.UUID, 0, len(r.StudentIDs))
	for _, id := range r.StudentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

/* =========================================================
   RESPONSE
   ========================================================= */

type EventResponse struct {
	EventID          uuid.UUID `json:"event_id"`
	EventName        string    `json:"event_name"`
	EventNominal     int64     `json:"event_nominal"`
	EventDate        *string   `json:"event_date,omitempty"`
	EventDescription *string   `json:"event_description,omitempty"`
	EventIsActive    bool      `json:"event_is_active"`
	EventCreatedAt   time.Time `json:"event_created_at"`
	EventUpdatedAt   time.Time `json:"event_updated_at"`
}

func FromModel(m *model.EventModel) EventResponse {
	out := EventResponse{
		EventID:          m.EventID,
		EventName:        m.EventName,
		EventNominal:     m.EventNominal,
		EventDescription: m.EventDescription,
		EventIsActive:    m.EventIsActive,
		EventCreatedAt:   m.EventCreatedAt,
		EventUpdatedAt:   m.EventUpdatedAt,
	}
	if m.EventDate != nil {
		s := ledger.DayKey(*m.EventDate)
		out.EventDate = &s
	}
	return out
}

func FromModels(rows []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type PaymentLine struct {
	StudentID     uuid.UUID     `json:"student_id"`
	TransactionID uuid.UUID     `json:"transaction_id"`
	Charge        ledger.Charge `json:"charge"`
}

type EventPaymentResponse struct {
	Event       EventResponse `json:"event"`
	Method      ledger.Method `json:"method"`
	Date        string        `json:"date"`
	Lines       []PaymentLine `json:"lines"`
	TotalAmount int64         `json:"total_amount"`
	TotalFee    int64         `json:"total_fee"`
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
