package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a coffee shop listed in the app. AverageRating and RatingCount are
// maintained exclusively by the rating aggregator; AverageRating is always the
// arithmetic mean of the shop's recorded ratings and RatingCount never
// decreases.
type Shop struct {
	BaseModel
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `gorm:"index" json:"category"`
	AddressLine   string  `json:"address_line"`
	City          string  `json:"city"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`

	Reviews []Review `json:"reviews,omitempty"`
	Coupons []Coupon `json:"coupons,omitempty"`
}

// RatingEvent records a single rating submission. Append-only.
type RatingEvent struct {
	BaseModel
	ShopID  uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Value   float64   `json:"value"`
	RatedAt time.Time `json:"rated_at"`
}

// Review is a free-text review left on a shop. Reviews at or above the
// configured detailed length earn a larger points award.
type Review struct {
	BaseModel
	ShopID uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User     `json:"user,omitempty"`
	Text   string    `json:"text"`
	Rating *float64  `json:"rating,omitempty"`
}

// Visit records a check-in at a shop. Append-only.
type Visit struct {
	BaseModel
	ShopID    uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	VisitedAt time.Time `json:"visited_at"`
}
