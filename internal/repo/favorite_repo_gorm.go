package repo

import (
	"gorm.io/gorm"

	"animal-market/internal/domain"
)

type FavoriteRepo struct{ db *gorm.DB }

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

func (r *FavoriteRepo) Create(f *domain.Favorite) error { return r.db.Create(f).Error }

func (r *FavoriteRepo) Delete(userID, listingID uint) error {
	return r.db.Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&domain.Favorite{}).Error
}

func (r *FavoriteRepo) Exists(userID, listingID uint) (bool, error) {
	var n int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&n).Error
	return n > 0, err
}

func (r *FavoriteRepo) ListByUser(userID uint) ([]domain.Favorite, error) {
	var fs []domain.Favorite
	err := r.db.Preload("Listing").Preload("Listing.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&fs).Error
	return fs, err
}

func (r *FavoriteRepo) CountByUser(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Favorite{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *FavoriteRepo) DeleteByListing(listingID uint) error {
	return r.db.Where("listing_id = ?", listingID).Delete(&domain.Favorite{}).Error
}
