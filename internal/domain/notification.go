package domain

import "time"

const (
	NotifyMessage         = "message"
	NotifyListingApproved = "listing_approved"
	NotifyListingRejected = "listing_rejected"
	NotifyAnnouncement    = "announcement"
)

// Notification 只由服务层作为副作用写入，客户端不能直接创建
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Body      string    `gorm:"size:1000" json:"body"`
	Link      string    `gorm:"size:255" json:"link,omitempty"`
	Read      bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type NotificationRepository interface {
	Create(n *Notification) error
	CreateBatch(ns []Notification) error
	FindByID(id uint) (*Notification, error)
	ListByUser(userID uint, unreadOnly bool, offset, limit int) ([]Notification, int64, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(id uint) error
	MarkAllRead(userID uint) error
	Delete(id uint) error
}
