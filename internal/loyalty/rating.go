package loyalty

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/models"
)

// RatingAggregator maintains each shop's running average rating.
type RatingAggregator struct {
	store Store
}

// NewRatingAggregator constructs a RatingAggregator backed by store.
func NewRatingAggregator(store Store) *RatingAggregator {
	return &RatingAggregator{store: store}
}

// SubmitRating records a rating for a shop and recomputes its average and
// count inside one transaction. The first rating sets the average to the
// submitted value exactly; later ratings fold into the running mean. The
// appended RatingEvent is returned so callers can key follow-up effects
// (points awards) on its id.
func (a *RatingAggregator) SubmitRating(ctx context.Context, shopID, userID uuid.UUID, value float64) (*models.RatingEvent, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 1.0 || value > 5.0 {
		return nil, ErrInvalidRatingValue
	}

	event := &models.RatingEvent{
		ShopID:  shopID,
		UserID:  userID,
		Value:   value,
		RatedAt: time.Now(),
	}

	err := a.store.Atomically(ctx, func(tx Tx) error {
		shop, err := tx.ShopForUpdate(shopID)
		if err != nil {
			return err
		}

		if shop.RatingCount == 0 {
			shop.AverageRating = value
		} else {
			shop.AverageRating = (shop.AverageRating*float64(shop.RatingCount) + value) / float64(shop.RatingCount+1)
		}
		shop.RatingCount++

		if err := tx.SaveShop(shop); err != nil {
			return err
		}
		return tx.AppendRatingEvent(event)
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
