package repo

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"animal-market/internal/domain"
)

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

// Upsert (rater_id, rated_id) 冲突时覆盖 value/review
func (r *RatingRepo) Upsert(rt *domain.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rater_id"}, {Name: "rated_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "review", "updated_at"}),
	}).Create(rt).Error
}

func (r *RatingRepo) Find(raterID, ratedID uint) (*domain.Rating, error) {
	var rt domain.Rating
	err := r.db.Where("rater_id = ? AND rated_id = ?", raterID, ratedID).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rt, err
}

func (r *RatingRepo) ListByRated(ratedID uint) ([]domain.Rating, error) {
	var rts []domain.Rating
	err := r.db.Preload("Rater").
		Where("rated_id = ?", ratedID).
		Order("updated_at DESC").
		Find(&rts).Error
	return rts, err
}

func (r *RatingRepo) Aggregate(ratedID uint) (domain.RatingAggregate, error) {
	var agg domain.RatingAggregate
	err := r.db.Model(&domain.Rating{}).
		Where("rated_id = ?", ratedID).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Scan(&agg).Error
	return agg, err
}

func (r *RatingRepo) Delete(raterID, ratedID uint) error {
	return r.db.Where("rater_id = ? AND rated_id = ?", raterID, ratedID).
		Delete(&domain.Rating{}).Error
}
