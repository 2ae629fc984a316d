package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"animal-market/internal/domain"
)

type ListingRepo struct{ db *gorm.DB }

func NewListingRepo(db *gorm.DB) *ListingRepo { return &ListingRepo{db: db} }

func (r *ListingRepo) Create(l *domain.Listing) error { return r.db.Create(l).Error }

func (r *ListingRepo) FindByID(id uint) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Seller").
		First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *ListingRepo) FindBySlug(slug string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Seller").
		First(&l, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

// likeEscaper 模糊搜索前把 LIKE 元字符转义掉，转义符用 '!'（反斜杠在
// MySQL 字符串字面量里有歧义）。配套 ESCAPE '!' 使用。
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Search 筛选条件全部 AND；未设置的条件不参与
func (r *ListingRepo) Search(f domain.ListingFilter, sort string, offset, limit int) ([]domain.Listing, int64, error) {
	q := r.db.Model(&domain.Listing{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if s := strings.TrimSpace(f.Keyword); s != "" {
		like := likePattern(strings.ToLower(s))
		q = q.Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(breed) LIKE ? ESCAPE '!'",
			like, like, like)
	}
	if len(f.Species) > 0 {
		q = q.Where("species IN ?", f.Species)
	}
	if s := strings.TrimSpace(f.Breed); s != "" {
		q = q.Where("LOWER(breed) LIKE ? ESCAPE '!'", likePattern(strings.ToLower(s)))
	}
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.Availability != "" {
		q = q.Where("availability = ?", f.Availability)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinAge != nil {
		q = q.Where("age_months >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		q = q.Where("age_months <= ?", *f.MaxAge)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sort {
	case domain.SortOldest:
		q = q.Order("created_at ASC")
	case domain.SortPriceLow:
		q = q.Order("price ASC")
	case domain.SortPriceHigh:
		q = q.Order("price DESC")
	default: // newest
		q = q.Order("created_at DESC")
	}

	var items []domain.Listing
	err := q.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Offset(offset).Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *ListingRepo) Update(l *domain.Listing) error {
	return r.db.Omit("Images", "Seller").Save(l).Error
}

func (r *ListingRepo) UpdateStatus(id uint, status, reason string) error {
	return r.db.Model(&domain.Listing{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "rejection_reason": reason}).Error
}

func (r *ListingRepo) UpdateAvailability(id uint, availability string) error {
	return r.db.Model(&domain.Listing{}).Where("id = ?", id).
		Update("availability", availability).Error
}

func (r *ListingRepo) IncrementViews(id uint) error {
	return r.db.Model(&domain.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete 连带删除图片行（文件清理由服务层负责）
func (r *ListingRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&domain.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Listing{}, "id = ?", id).Error
	})
}

func (r *ListingRepo) SlugExists(slug string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.Listing{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *ListingRepo) AddImage(img *domain.ListingImage) error { return r.db.Create(img).Error }

func (r *ListingRepo) ImageCount(listingID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ListingImage{}).Where("listing_id = ?", listingID).Count(&n).Error
	return n, err
}

func (r *ListingRepo) FindImage(id uint) (*domain.ListingImage, error) {
	var img domain.ListingImage
	err := r.db.First(&img, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &img, err
}

func (r *ListingRepo) DeleteImage(id uint) error {
	return r.db.Delete(&domain.ListingImage{}, "id = ?", id).Error
}

func (r *ListingRepo) CountByStatus(status string) (int64, error) {
	q := r.db.Model(&domain.Listing{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
