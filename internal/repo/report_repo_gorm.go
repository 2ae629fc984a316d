package repo

import (
	"errors"

	"gorm.io/gorm"

	"animal-market/internal/domain"
)

type ReportRepo struct{ db *gorm.DB }

func NewReportRepo(db *gorm.DB) *ReportRepo { return &ReportRepo{db: db} }

func (r *ReportRepo) Create(rp *domain.Report) error { return r.db.Create(rp).Error }

func (r *ReportRepo) FindByID(id uint) (*domain.Report, error) {
	var rp domain.Report
	err := r.db.Preload("Listing").First(&rp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rp, err
}

func (r *ReportRepo) List(status string, offset, limit int) ([]domain.Report, int64, error) {
	q := r.db.Model(&domain.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rps []domain.Report
	err := q.Preload("Listing").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rps).Error
	return rps, total, err
}

func (r *ReportRepo) UpdateStatus(id uint, status, resolution string) error {
	return r.db.Model(&domain.Report{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "resolution": resolution}).Error
}

func (r *ReportRepo) CountByStatus(status string) (int64, error) {
	q := r.db.Model(&domain.Report{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
