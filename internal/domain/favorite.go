package domain

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:uniq_fav;not null" json:"userId"`
	ListingID uint      `gorm:"uniqueIndex:uniq_fav;not null" json:"listingId"`
	Listing   *Listing  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Favorite) TableName() string { return "favorites" }

type FavoriteRepository interface {
	Create(f *Favorite) error
	Delete(userID, listingID uint) error
	Exists(userID, listingID uint) (bool, error)
	ListByUser(userID uint) ([]Favorite, error)
	CountByUser(userID uint) (int64, error)
	DeleteByListing(listingID uint) error
}
