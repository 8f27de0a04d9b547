// file: internals/features/finance/transactions/model/transaction_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/finance/ledger"
)

type TransactionModel struct {
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`

	// UUID siswa atau "non_student"
	TransactionSubjectID string `gorm:"column:transaction_subject_id;type:varchar(64);not null;index:idx_transactions_subject_date,priority:1" json:"transaction_subject_id"`

	TransactionAmount   int64           `gorm:"column:transaction_amount;not null" json:"transaction_amount"`
	TransactionKind     ledger.Kind     `gorm:"column:transaction_kind;type:varchar(10);not null" json:"transaction_kind"`
	TransactionDate     time.Time       `gorm:"column:transaction_date;type:date;not null;index;index:idx_transactions_subject_date,priority:2" json:"transaction_date"`
	TransactionCategory ledger.Category `gorm:"column:transaction_category;type:varchar(20);not null" json:"transaction_category"`
	TransactionNote     *string         `gorm:"column:transaction_note;type:text" json:"transaction_note,omitempty"`

	// true → tidak mengubah saldo siswa (event dibayar tunai)
	TransactionSkipBalance bool `gorm:"column:transaction_skip_balance;not null" json:"transaction_skip_balance"`

	// terisi kalau dibuat dari pembayaran event
	TransactionEventID *uuid.UUID `gorm:"column:transaction_event_id;type:uuid;index" json:"transaction_event_id,omitempty"`

	TransactionCreatedBy *uuid.UUID `gorm:"column:transaction_created_by;type:uuid" json:"transaction_created_by,omitempty"`
	TransactionCreatedAt time.Time  `gorm:"column:transaction_created_at;autoCreateTime" json:"transaction_created_at"`
	TransactionUpdatedAt time.Time  `gorm:"column:transaction_updated_at;autoUpdateTime" json:"transaction_updated_at"`
}

func (TransactionModel) TableName() string { return "transactions" }

func (m *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if m.TransactionID == uuid.Nil {
		m.TransactionID = uuid.New()
	}
	return nil
}

func (m *TransactionModel) BeforeSave(tx *gorm.DB) error {
	m.TransactionDate = ledger.Day(m.TransactionDate)
	return nil
}

func (m TransactionModel) ToLedger() ledger.Transaction {
	t := ledger.Transaction{
		ID:          m.TransactionID.String(),
		SubjectID:   m.TransactionSubjectID,
		Amount:      m.TransactionAmount,
		Kind:        m.TransactionKind,
		Date:        ledger.Day(m.TransactionDate),
		Category:    m.TransactionCategory,
		SkipBalance: m.TransactionSkipBalance,
		CreatedAt:   m.TransactionCreatedAt,
	}
	if m.TransactionNote != nil {
		t.Note = *m.TransactionNote
	}
	return t
}

func ToLedger(rows []TransactionModel) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToLedger())
	}
	return out
}

// FromLedger dipakai saat menulis hasil derivasi (mis. Charge.Transaction).
func FromLedger(t ledger.Transaction) *TransactionModel {
	m := &TransactionModel{
		TransactionSubjectID:   t.SubjectID,
		TransactionAmount:      t.Amount,
		TransactionKind:        t.Kind,
		TransactionDate:        ledger.Day(t.Date),
		TransactionCategory:    t.Category,
		TransactionSkipBalance: t.SkipBalance,
	}
	if t.Note != "" {
		note := t.Note
		m.TransactionNote = &note
	}
	if id, err := uuid.Parse(t.ID); err == nil {
		m.TransactionID = id
	}
	return m
}
