package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	AvailabilityAvailable = "available"
	AvailabilityReserved  = "reserved"
	AvailabilitySold      = "sold"
	AvailabilityAdopted   = "adopted"
)

type Listing struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SellerID        uint           `gorm:"index;not null" json:"sellerId"`
	Title           string         `gorm:"size:128;not null" json:"title"`
	Slug            string         `gorm:"uniqueIndex;size:160;not null" json:"slug"`
	Description     string         `gorm:"type:text" json:"description"`
	Species         string         `gorm:"size:32;index;not null" json:"species"`
	Breed           string         `gorm:"size:64" json:"breed"`
	Gender          string         `gorm:"size:16" json:"gender"`
	AgeMonths       int            `json:"ageMonths"`
	Price           float64        `gorm:"index" json:"price"`
	Currency        string         `gorm:"size:8;default:EUR" json:"currency"`
	Country         string         `gorm:"size:64;index" json:"country"`
	City            string         `gorm:"size:64" json:"city"`
	Status          string         `gorm:"size:16;index;not null;default:pending" json:"status"`
	RejectionReason string         `gorm:"size:255" json:"rejectionReason,omitempty"`
	Availability    string         `gorm:"size:16;not null;default:available" json:"availability"`
	Views           int64          `gorm:"not null;default:0" json:"views"`
	Images          []ListingImage `gorm:"foreignKey:ListingID" json:"images"`
	Seller          *User          `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string { return "listings" }

// CoverImage 第一张图为封面
func (l *Listing) CoverImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0].URL
}

type ListingImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"index;not null" json:"listingId"`
	URL       string    `gorm:"size:255;not null" json:"url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ListingImage) TableName() string { return "listing_images" }

// ListingFilter 公开检索的筛选条件，未设置的字段不参与过滤
type ListingFilter struct {
	Keyword      string
	Species      []string
	Breed        string
	Country      string
	City         string
	Gender       string
	Availability string
	MinPrice     *float64
	MaxPrice     *float64
	MinAge       *int
	MaxAge       *int
	SellerID     uint   // 0 = 不限
	Status       string // 空 = 不限（仅管理端可用）
}

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

type ListingRepository interface {
	Create(l *Listing) error
	FindByID(id uint) (*Listing, error)
	FindBySlug(slug string) (*Listing, error)
	Search(f ListingFilter, sort string, offset, limit int) ([]Listing, int64, error)
	Update(l *Listing) error
	UpdateStatus(id uint, status, reason string) error
	UpdateAvailability(id uint, availability string) error
	IncrementViews(id uint) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	AddImage(img *ListingImage) error
	ImageCount(listingID uint) (int64, error)
	FindImage(id uint) (*ListingImage, error)
	DeleteImage(id uint) error
	CountByStatus(status string) (int64, error)
}
