package domain

import "time"

// Rating (rater, rated) 维度唯一，重复评分走覆盖
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RaterID   uint      `gorm:"uniqueIndex:uniq_rating;not null" json:"raterId"`
	RatedID   uint      `gorm:"uniqueIndex:uniq_rating;index;not null" json:"ratedId"`
	Value     int       `gorm:"not null" json:"value"` // 1..5
	Review    string    `gorm:"size:1000" json:"review,omitempty"`
	Rater     *User     `gorm:"foreignKey:RaterID" json:"rater,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Rating) TableName() string { return "ratings" }

type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type RatingRepository interface {
	Upsert(r *Rating) error
	Find(raterID, ratedID uint) (*Rating, error)
	ListByRated(ratedID uint) ([]Rating, error)
	Aggregate(ratedID uint) (RatingAggregate, error)
	Delete(raterID, ratedID uint) error
}
