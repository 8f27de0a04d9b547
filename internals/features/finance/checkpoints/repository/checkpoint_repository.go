// file: internals/features/finance/checkpoints/repository/checkpoint_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/features/finance/checkpoints/model"
	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/realtime"
)

type CheckpointRepository interface {
	// Get: belum ada baris → (nil, nil)
	Get(ctx context.Context) (*model.CheckpointModel, error)
	// Current: bentuk ledger; belum ada → Checkpoint{} (semua transaksi dihitung)
	Current(ctx context.Context) (ledger.Checkpoint, error)
	Upsert(ctx context.Context, m *model.CheckpointModel) error
}

type checkpointRepository struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewCheckpointRepository(db *gorm.DB, notifier realtime.Notifier) CheckpointRepository {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &checkpointRepository{db: db, notifier: notifier}
}

func (r *checkpointRepository) Get(ctx context.Context) (*model.CheckpointModel, error) {
	var m model.CheckpointModel
	err := r.db.WithContext(ctx).First(&m, "checkpoint_id = ?", model.SingletonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *checkpointRepository) Current(ctx context.Context) (ledger.Checkpoint, error) {
	m, err := r.Get(ctx)
	if err != nil || m == nil {
		return ledger.Checkpoint{}, err
	}
	return m.ToLedger(), nil
}

func (r *checkpointRepository) Upsert(ctx context.Context, m *model.CheckpointModel) error {
	m.CheckpointID = model.SingletonID
	m.CheckpointDate = ledger.Day(m.CheckpointDate)
	m.CheckpointUpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "checkpoint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"checkpoint_amount",
			"checkpoint_date",
			"checkpoint_note",
			"checkpoint_updated_by",
			"checkpoint_updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{
		Collection: realtime.CollectionCheckpoint,
		Op:         "upsert",
		Day:        ledger.DayKey(m.CheckpointDate),
	})
	return nil
}
