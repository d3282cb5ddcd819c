package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a shop-issued discount. A user may redeem a given coupon once;
// redemption credits loyalty points keyed on the coupon id.
type Coupon struct {
	BaseModel
	ShopID          uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	Code            string    `gorm:"uniqueIndex" json:"code"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount_percent"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
	IsActive        bool      `json:"is_active"`
}

// CouponRedemption records a single redemption. Append-only.
type CouponRedemption struct {
	BaseModel
	CouponID   uuid.UUID `gorm:"type:uuid;index" json:"coupon_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	RedeemedAt time.Time `json:"redeemed_at"`
}
