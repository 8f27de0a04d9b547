// file: internals/features/finance/transactions/dto/transaction_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/finance/transactions/model"
	helper "paudku_backend/internals/helpers"
)

// ValidSubject: UUID siswa atau sentinel non_student.
func ValidSubject(s string) bool {
	s = strings.TrimSpace(s)
	if s == ledger.NonStudent {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil
}

/* =========================================================
   REQUEST: Create (setoran / pemasukan / pengeluaran)
   ========================================================= */

type CreateTransactionRequest struct {
	TransactionSubjectID   string     `json:"transaction_subject_id"   validate:"required"`
	TransactionAmount      int64      `json:"transaction_amount"       validate:"required,gt=0,max=1000000000000"`
	TransactionKind        string     `json:"transaction_kind"         validate:"required,oneof=credit debit"`
	TransactionDate        string     `json:"transaction_date"         validate:"required,datetime=2006-01-02"`
	TransactionCategory    string     `json:"transaction_category"     validate:"omitempty,oneof=ordinary event other"`
	TransactionNote        *string    `json:"transaction_note"         validate:"omitempty,max=500"`
	TransactionSkipBalance bool       `json:"transaction_skip_balance"`
	TransactionEventID     *uuid.UUID `json:"transaction_event_id"`
}

func (r *CreateTransactionRequest) Normalize() {
	r.TransactionSubjectID = strings.TrimSpace(r.TransactionSubjectID)
	r.TransactionKind = strings.ToLower(strings.TrimSpace(r.TransactionKind))
	r.TransactionCategory = strings.ToLower(strings.TrimSpace(r.TransactionCategory))
	if r.TransactionCategory == "" {
		r.TransactionCategory = string(ledger.CategoryOrdinary)
	}
	r.TransactionDate = strings.TrimSpace(r.TransactionDate)
}

func (r *CreateTransactionRequest) ToModel() (*model.TransactionModel, error) {
	day, err := ledger.ParseDay(r.TransactionDate)
	if err != nil {
		return nil, err
	}
	m := &model.TransactionModel{
		TransactionSubjectID:   r.TransactionSubjectID,
		TransactionAmount:      r.TransactionAmount,
		TransactionKind:        ledger.Kind(r.TransactionKind),
		TransactionDate:        day,
		TransactionCategory:    ledger.Category(r.TransactionCategory),
		TransactionNote:        trimPtr(r.TransactionNote),
		TransactionSkipBalance: r.TransactionSkipBalance,
		TransactionEventID:     r.TransactionEventID,
	}
	if err := m.ToLedger().Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

/* =========================================================
   REQUEST: Patch (amount, date, note saja)
   ========================================================= */

type PatchTransactionRequest struct {
	TransactionAmount helper.PatchField[int64]  `json:"transaction_amount"`
	TransactionDate   helper.PatchField[string] `json:"transaction_date"`
	TransactionNote   helper.PatchField[string] `json:"transaction_note"`
}

// ApplyTo mengembalikan (field, pesan) kalau ada input invalid.
func (p *PatchTransactionRequest) ApplyTo(m *model.TransactionModel) (string, string) {
	if p.TransactionAmount.Set {
		if !p.TransactionAmount.HasValue() || *p.TransactionAmount.Value <= 0 {
			return "transaction_amount", "harus lebih dari 0"
		}
		if *p.TransactionAmount.Value > ledger.MaxAmount {
			return "transaction_amount", "maksimal 1000000000000"
		}
		m.TransactionAmount = *p.TransactionAmount.Value
	}
	if p.TransactionDate.Set {
		if !p.TransactionDate.HasValue() {
			return "transaction_date", "wajib diisi"
		}
		day, err := ledger.ParseDay(*p.TransactionDate.Value)
		if err != nil {
			return "transaction_date", "format tanggal YYYY-MM-DD"
		}
		m.TransactionDate = day
	}
	if p.TransactionNote.Set {
		m.TransactionNote = trimPtr(p.TransactionNote.Value)
	}
	return "", ""
}

/* =========================================================
   REQUEST: Withdrawal (tarik saldo + biaya admin)
   ========================================================= */

type WithdrawalRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Nominal   int64     `json:"nominal"    validate:"required,gt=0,max=1000000000000"`
	Date      string    `json:"date"       validate:"required,datetime=2006-01-02"`
	Note      *string   `json:"note"       validate:"omitempty,max=500"`
}

/* =========================================================
   RESPONSE
   ========================================================= */

type TransactionResponse struct {
	TransactionID          uuid.UUID       `json:"transaction_id"`
	TransactionSubjectID   string          `json:"transaction_subject_id"`
	TransactionAmount      int64           `json:"transaction_amount"`
	TransactionSigned      int64           `json:"transaction_signed_amount"`
	TransactionKind        ledger.Kind     `json:"transaction_kind"`
	TransactionDate        string          `json:"transaction_date"`
	TransactionCategory    ledger.Category `json:"transaction_category"`
	TransactionNote        *string         `json:"transaction_note,omitempty"`
	TransactionSkipBalance bool            `json:"transaction_skip_balance"`
	TransactionEventID     *uuid.UUID      `json:"transaction_event_id,omitempty"`
	TransactionCreatedAt   time.Time       `json:"transaction_created_at"`
	TransactionUpdatedAt   time.Time       `json:"transaction_updated_at"`
}

func FromModel(m *model.TransactionModel) TransactionResponse {
	return TransactionResponse{
		TransactionID:          m.TransactionID,
		TransactionSubjectID:   m.TransactionSubjectID,
		TransactionAmount:      m.TransactionAmount,
		TransactionSigned:      m.ToLedger().Signed(),
		TransactionKind:        m.TransactionKind,
		TransactionDate:        ledger.DayKey(m.TransactionDate),
		TransactionCategory:    m.TransactionCategory,
		TransactionNote:        m.TransactionNote,
		TransactionSkipBalance: m.TransactionSkipBalance,
		TransactionEventID:     m.TransactionEventID,
		TransactionCreatedAt:   m.TransactionCreatedAt,
		TransactionUpdatedAt:   m.TransactionUpdatedAt,
	}
}

func FromModels(rows []model.TransactionModel) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type WithdrawalResponse struct {
	Charge      ledger.Charge       `json:"charge"`
	Transaction TransactionResponse `json:"transaction"`
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
