package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ActionKind enumerates the actions that earn loyalty points.
type ActionKind string

const (
	ActionRating       ActionKind = "rating"
	ActionReview       ActionKind = "review"
	ActionCouponRedeem ActionKind = "coupon_redeem"
	ActionCafeVisit    ActionKind = "cafe_visit"
)

// Valid reports whether k is one of the enumerated action kinds.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionRating, ActionReview, ActionCouponRedeem, ActionCafeVisit:
		return true
	}
	return false
}

// LoyaltyAccount tracks a user's accumulated points. Created lazily on the
// first qualifying action; CurrentLevel and PointsToNextLevel are recomputed
// from TotalPoints on every mutation. Rank is a point-in-time snapshot
// refreshed on demand, not a live value.
type LoyaltyAccount struct {
	BaseModel
	UserID            uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	TotalPoints       int64          `json:"total_points"`
	CurrentLevel      int            `json:"current_level"`
	PointsToNextLevel int64          `json:"points_to_next_level"`
	RatingCount       int64          `json:"rating_count"`
	ReviewCount       int64          `json:"review_count"`
	RedemptionCount   int64          `json:"redemption_count"`
	VisitCount        int64          `json:"visit_count"`
	Badges            pq.StringArray `gorm:"type:text[]" json:"badges"`
	Rank              int64          `json:"rank"`
}

// PointTransaction is an append-only ledger entry. The
// (user_id, action, related_id) triple is the idempotency key that prevents
// a user from being credited twice for the same rating, review, redemption
// or visit.
type PointTransaction struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_point_tx_dedup" json:"user_id"`
	Points      int64      `json:"points"`
	Action      ActionKind `gorm:"uniqueIndex:idx_point_tx_dedup" json:"action"`
	Description string     `json:"description"`
	RelatedID   string     `gorm:"uniqueIndex:idx_point_tx_dedup" json:"related_id"`
	OccurredAt  time.Time  `json:"occurred_at"`
}
