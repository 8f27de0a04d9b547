// file: internals/features/school/attendance/repository/attendance_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/features/finance/ledger"
	"paudku_backend/internals/features/school/attendance/model"
	"paudku_backend/internals/realtime"
)

type AttendanceRepository interface {
	// Day: hari tanpa record → map kosong
	Day(ctx context.Context, day time.Time) (model.StatusMap, error)
	// Range: key "YYYY-MM-DD"
	Range(ctx context.Context, from, to time.Time) (map[string]model.StatusMap, error)
	// ReplaceDay mengganti seluruh mapping hari itu; mapping kosong → record dihapus.
	ReplaceDay(ctx context.Context, day time.Time, statuses model.StatusMap, actor *uuid.UUID) error
}

type attendanceRepository struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewAttendanceRepository(db *gorm.DB, notifier realtime.Notifier) AttendanceRepository {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &attendanceRepository{db: db, notifier: notifier}
}

func (r *attendanceRepository) Day(ctx context.Context, day time.Time) (model.StatusMap, error) {
	var rows []model.AttendanceDayModel
	if err := r.db.WithContext(ctx).
		Where("attendance_date = ?", ledger.Day(day)).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return model.StatusMap{}, nil
	}
	return rows[0].Statuses(), nil
}

func (r *attendanceRepository) Range(ctx context.Context, from, to time.Time) (map[string]model.StatusMap, error) {
	var rows []model.AttendanceDayModel
	if err := r.db.WithContext(ctx).
		Where("attendance_date >= ? AND attendance_date <= ?", ledger.Day(from), ledger.Day(to)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]model.StatusMap, len(rows))
	for _, row := range rows {
		out[ledger.DayKey(row.AttendanceDate)] = row.Statuses()
	}
	return out, nil
}

func (r *attendanceRepository) ReplaceDay(ctx context.Context, day time.Time, statuses model.StatusMap, actor *uuid.UUID) error {
	day = ledger.Day(day)

	var err error
	if len(statuses) == 0 {
		err = r.db.WithContext(ctx).
			Where("attendance_date = ?", day).
			Delete(&model.AttendanceDayModel{}).Error
	} else {
		row := &model.AttendanceDayModel{
			AttendanceDate:      day,
			AttendanceStatuses:  datatypes.NewJSONType(statuses),
			AttendanceUpdatedBy: actor,
			AttendanceUpdatedAt: time.Now(),
		}
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_statuses",
				"attendance_updated_by",
				"attendance_updated_at",
			}),
		}).Create(row).Error
	}
	if err != nil {
		return err
	}

	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{
		Collection: realtime.CollectionAttendance,
		Op:         "replace",
		Day:        ledger.DayKey(day),
	})
	return nil
}
