package repo

import (
	"errors"

	"gorm.io/gorm"

	"animal-market/internal/domain"
)

type NotificationRepo struct{ db *gorm.DB }

func NewNotificationRepo(db *gorm.DB) *NotificationRepo { return &NotificationRepo{db: db} }

func (r *NotificationRepo) Create(n *domain.Notification) error { return r.db.Create(n).Error }

func (r *NotificationRepo) CreateBatch(ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

func (r *NotificationRepo) FindByID(id uint) (*domain.Notification, error) {
	var n domain.Notification
	err := r.db.First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &n, err
}

func (r *NotificationRepo) ListByUser(userID uint, unreadOnly bool, offset, limit int) ([]domain.Notification, int64, error) {
	q := r.db.Model(&domain.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ns []domain.Notification
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ns).Error
	return ns, total, err
}

func (r *NotificationRepo) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepo) MarkRead(id uint) error {
	return r.db.Model(&domain.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *NotificationRepo) MarkAllRead(userID uint) error {
	return r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepo) Delete(id uint) error {
	return r.db.Delete(&domain.Notification{}, "id = ?", id).Error
}
