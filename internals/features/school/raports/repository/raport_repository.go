// file: internals/features/school/raports/repository/raport_repository.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/school/raports/model"
)

type RaportFilter struct {
	StudentID    *uuid.UUID
	AcademicYear string
	Semester     int
}

type RaportRepository interface {
	List(ctx context.Context, f RaportFilter) ([]model.RaportModel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.RaportModel, error)
	Create(ctx context.Context, m *model.RaportModel) error
	Save(ctx context.Context, m *model.RaportModel) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type raportRepository struct{ db *gorm.DB }

func NewRaportRepository(db *gorm.DB) RaportRepository {
	return &raportRepository{db: db}
}

func (r *raportRepository) List(ctx context.Context, f RaportFilter) ([]model.RaportModel, error) {
	q := r.db.WithContext(ctx).Model(&model.RaportModel{})
	if f.StudentID != nil {
		q = q.Where("raport_student_id = ?", *f.StudentID)
	}
	if s := strings.TrimSpace(f.AcademicYear); s != "" {
		q = q.Where("raport_academic_year = ?", s)
	}
	if f.Semester > 0 {
		q = q.Where("raport_semester = ?", f.Semester)
	}
	var rows []model.RaportModel
	if err := q.Order("raport_academic_year DESC").
		Order("raport_semester DESC").
		Order("raport_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *raportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RaportModel, error) {
	var m model.RaportModel
	if err := r.db.WithContext(ctx).First(&m, "raport_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *raportRepository) Create(ctx context.Context, m *model.RaportModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *raportRepository) Save(ctx context.Context, m *model.RaportModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *raportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("raport_id = ?", id).Delete(&model.RaportModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
