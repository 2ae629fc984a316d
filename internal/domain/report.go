package domain

import "time"

const (
	ReportOpen      = "open"
	ReportReviewing = "reviewing"
	ReportClosed    = "closed"
)

type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ListingID  uint      `gorm:"index;not null" json:"listingId"`
	Listing    *Listing  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	ReporterID *uint     `gorm:"index" json:"reporterId,omitempty"` // null = 游客举报
	Reason     string    `gorm:"size:1000;not null" json:"reason"`
	Status     string    `gorm:"size:16;index;not null;default:open" json:"status"`
	Resolution string    `gorm:"size:255" json:"resolution,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Report) TableName() string { return "reports" }

type ReportRepository interface {
	Create(r *Report) error
	FindByID(id uint) (*Report, error)
	List(status string, offset, limit int) ([]Report, int64, error)
	UpdateStatus(id uint, status, resolution string) error
	CountByStatus(status string) (int64, error)
}
