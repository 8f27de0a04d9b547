// file: internals/features/finance/transactions/repository/transaction_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/finance/transactions/model"
	"paudku_backend/internals/realtime"
)

type TransactionFilter struct {
	SubjectID string
	From      *time.Time // inklusif
	To        *time.Time // inklusif
	Category  ledger.Category
	Kind      ledger.Kind
	EventID   *uuid.UUID

	Offset int
	Limit  int // 0 = semua
}

type TransactionRepository interface {
	List(ctx context.Context, f TransactionFilter) ([]model.TransactionModel, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionModel, error)

	// All: seluruh transaksi dalam bentuk ledger (input derivasi).
	All(ctx context.Context) ([]ledger.Transaction, error)
	BySubject(ctx context.Context, subjectID string) ([]ledger.Transaction, error)
	// CreditsBetween: sumber PaymentIndex untuk absensi.
	CreditsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error)

	Create(ctx context.Context, m *model.TransactionModel) error
	// CreateBatch: semua atau tidak sama sekali.
	CreateBatch(ctx context.Context, rows []*model.TransactionModel) error
	Save(ctx context.Context, m *model.TransactionModel, previousDay time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type transactionRepository struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewTransactionRepository(db *gorm.DB, notifier realtime.Notifier) TransactionRepository {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &transactionRepository{db: db, notifier: notifier}
}

func (r *transactionRepository) scoped(ctx context.Context, f TransactionFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.TransactionModel{})
	if f.SubjectID != "" {
		q = q.Where("transaction_subject_id = ?", f.SubjectID)
	}
	if f.From != nil {
		q = q.Where("transaction_date >= ?", ledger.Day(*f.From))
	}
	if f.To != nil {
		q = q.Where("transaction_date <= ?", ledger.Day(*f.To))
	}
	if f.Category != "" {
		q = q.Where("transaction_category = ?", f.Category)
	}
	if f.Kind != "" {
		q = q.Where("transaction_kind = ?", f.Kind)
	}
	if f.EventID != nil {
		q = q.Where("transaction_event_id = ?", *f.EventID)
	}
	return q
}

func (r *transactionRepository) List(ctx context.Context, f TransactionFilter) ([]model.TransactionModel, int64, error) {
	var total int64
	if err := r.scoped(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.scoped(ctx, f).
		Order("transaction_date DESC").
		Order("transaction_created_at DESC").
		Order("transaction_id DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	var rows []model.TransactionModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionModel, error) {
	var m model.TransactionModel
	if err := r.db.WithContext(ctx).First(&m, "transaction_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *transactionRepository) All(ctx context.Context) ([]ledger.Transaction, error) {
	var rows []model.TransactionModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return model.ToLedger(rows), nil
}

func (r *transactionRepository) BySubject(ctx context.Context, subjectID string) ([]ledger.Transaction, error) {
	var rows []model.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("transaction_subject_id = ?", subjectID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return model.ToLedger(rows), nil
}

func (r *transactionRepository) CreditsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	var rows []model.TransactionModel
	if err := r.scoped(ctx, TransactionFilter{From: &from, To: &to, Kind: ledger.KindCredit}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return model.ToLedger(rows), nil
}

func (r *transactionRepository) Create(ctx context.Context, m *model.TransactionModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	r.notify(ctx, "create", m.TransactionDate)
	return nil
}

func (r *transactionRepository) CreateBatch(ctx context.Context, rows []*model.TransactionModel) error {
	if len(rows) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range rows {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	days := map[string]struct{}{}
	for _, m := range rows {
		k := ledger.DayKey(m.TransactionDate)
		if _, ok := days[k]; ok {
			continue
		}
		days[k] = struct{}{}
		r.notify(ctx, "create", m.TransactionDate)
	}
	return nil
}

func (r *transactionRepository) Save(ctx context.Context, m *model.TransactionModel, previousDay time.Time) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	r.notify(ctx, "update", m.TransactionDate)
	if !previousDay.IsZero() && !ledger.Day(previousDay).Equal(ledger.Day(m.TransactionDate)) {
		r.notify(ctx, "update", previousDay)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var m model.TransactionModel
	if err := r.db.WithContext(ctx).First(&m, "transaction_id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&m).Error; err != nil {
		return err
	}
	r.notify(ctx, "delete", m.TransactionDate)
	return nil
}

func (r *transactionRepository) notify(ctx context.Context, op string, day time.Time) {
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{
		Collection: realtime.CollectionTransactions,
		Op:         op,
		Day:        ledger.DayKey(day),
	})
}
