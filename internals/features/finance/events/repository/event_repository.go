// file: internals/features/finance/events/repository/event_repository.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/finance/events/model"
	"paudku_backend/internals/realtime"
)

type EventRepository interface {
	List(ctx context.Context, q string, onlyActive bool) ([]model.EventModel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.EventModel, error)
	Create(ctx context.Context, m *model.EventModel) error
	Save(ctx context.Context, m *model.EventModel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewEventRepository(db *gorm.DB, notifier realtime.Notifier) EventRepository {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &eventRepository{db: db, notifier: notifier}
}

func (r *eventRepository) List(ctx context.Context, q string, onlyActive bool) ([]model.EventModel, error) {
	tx := r.db.WithContext(ctx).Model(&model.EventModel{})
	if s := strings.TrimSpace(q); s != "" {
		tx = tx.Where("LOWER(event_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if onlyActive {
		tx = tx.Where("event_is_active = ?", true)
	}
	var rows []model.EventModel
	if err := tx.Order("event_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := r.db.WithContext(ctx).First(&m, "event_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *eventRepository) Create(ctx context.Context, m *model.EventModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	r.notify(ctx, "create")
	return nil
}

func (r *eventRepository) Save(ctx context.Context, m *model.EventModel) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	r.notify(ctx, "update")
	return nil
}

// Delete: transaksi pembayaran yang sudah tercatat tidak ikut terhapus.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("event_id = ?", id).Delete(&model.EventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.notify(ctx, "delete")
	return nil
}

func (r *eventRepository) notify(ctx context.Context, op string) {
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{Collection: realtime.CollectionEvents, Op: op})
}
