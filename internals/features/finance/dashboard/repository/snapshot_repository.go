// file: internals/features/finance/dashboard/repository/snapshot_repository.go
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/features/finance/dashboard/model"
	"paudku_backend/internals/features/finance/ledger"
)

type SnapshotRepository interface {
	Upsert(ctx context.Context, m *model.CashboxSnapshotModel) error
	// Since: snapshot dengan tanggal >= from, urut naik.
	Since(ctx context.Context, from time.Time) ([]model.CashboxSnapshotModel, error)
}

type snapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, m *model.CashboxSnapshotModel) error {
	m.SnapshotDate = ledger.Day(m.SnapshotDate)
	m.SnapshotUpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"snapshot_cash_box",
			"snapshot_total_student_savings",
			"snapshot_net_revenue",
			"snapshot_updated_at",
		}),
	}).Create(m).Error
}

func (r *snapshotRepository) Since(ctx context.Context, from time.Time) ([]model.CashboxSnapshotModel, error) {
	var rows []model.CashboxSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("snapshot_date >= ?", ledger.Day(from)).
		Order("snapshot_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
