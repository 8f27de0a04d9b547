// file: internals/features/finance/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventModel: katalog kegiatan berbayar (outing, pentas, dsb.)
type EventModel struct {
	EventID uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`

	EventName        string     `gorm:"column:event_name;type:varchar(160);not null" json:"event_name"`
	EventNominal     int64      `gorm:"column:event_nominal;not null" json:"event_nominal"` // per siswa, belum termasuk fee
	EventDate        *time.Time `gorm:"column:event_date;type:date" json:"event_date,omitempty"`
	EventDescription *string    `gorm:"column:event_description;type:text" json:"event_description,omitempty"`
	EventIsActive    bool       `gorm:"column:event_is_active;not null" json:"event_is_active"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	return nil
}
