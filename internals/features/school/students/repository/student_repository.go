// file: internals/features/school/students/repository/student_repository.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/school/students/model"
	"paudku_backend/internals/realtime"
)

type StudentFilter struct {
	Q         string
	ClassName string
	Offset    int
	Limit     int // 0 = semua
}

type StudentRepository interface {
	List(ctx context.Context, f StudentFilter) ([]model.StudentModel, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error)
	Create(ctx context.Context, m *model.StudentModel) error
	Save(ctx context.Context, m *model.StudentModel) error
	Delete(ctx context.Context, id uuid.UUID) error

	// dipakai absensi & dashboard
	IDs(ctx context.Context) ([]string, error)
	Names(ctx context.Context) (map[string]string, error)
}

type studentRepository struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewStudentRepository(db *gorm.DB, notifier realtime.Notifier) StudentRepository {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &studentRepository{db: db, notifier: notifier}
}

func (r *studentRepository) List(ctx context.Context, f StudentFilter) ([]model.StudentModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StudentModel{})
	if s := strings.TrimSpace(f.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(student_display_name) LIKE ? OR LOWER(COALESCE(student_legal_name, '')) LIKE ?", like, like)
	}
	if s := strings.TrimSpace(f.ClassName); s != "" {
		q = q.Where("student_class_name = ?", s)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("student_display_name ASC").Order("student_id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	var rows []model.StudentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := r.db.WithContext(ctx).First(&m, "student_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *studentRepository) Create(ctx context.Context, m *model.StudentModel) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{Collection: realtime.CollectionStudents, Op: "create"})
	return nil
}

func (r *studentRepository) Save(ctx context.Context, m *model.StudentModel) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{Collection: realtime.CollectionStudents, Op: "update"})
	return nil
}

// Delete hard delete; transaksi/absensi yang merujuk siswa ini tetap ada (tampil "Unknown").
func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("student_id = ?", id).Delete(&model.StudentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	realtime.NotifyQuietly(ctx, r.notifier, realtime.Change{Collection: realtime.CollectionStudents, Op: "delete"})
	return nil
}

func (r *studentRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.StudentModel{}).
		Order("student_display_name ASC").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out, nil
}

func (r *studentRepository) Names(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		StudentID          uuid.UUID
		StudentDisplayName string
	}
	if err := r.db.WithContext(ctx).Model(&model.StudentModel{}).
		Select("student_id, student_display_name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.StudentID.String()] = row.StudentDisplayName
	}
	return out, nil
}

