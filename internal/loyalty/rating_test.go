package loyalty_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/models"
	"github.com/example/brewpoints/internal/storage/memstore"
)

func TestSubmitRating_FirstRatingSetsAverageExactly(t *testing.T) {
	store := memstore.New()
	shopID := store.PutShop(models.Shop{Name: "Ristretto Corner"})
	aggregator := loyalty.NewRatingAggregator(store)

	event, err := aggregator.SubmitRating(context.Background(), shopID, uuid.New(), 4.5)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, 4.5, event.Value)

	shop, ok := store.Shop(shopID)
	require.True(t, ok)
	assert.Equal(t, 4.5, shop.AverageRating)
	assert.Equal(t, int64(1), shop.RatingCount)
}

func TestSubmitRating_RunningAverage(t *testing.T) {
	store := memstore.New()
	shopID := store.PutShop(models.Shop{Name: "Ristretto Corner"})
	aggregator := loyalty.NewRatingAggregator(store)

	values := []float64{1.0, 5.0, 3.5, 2.0, 4.0, 4.5, 3.0}
	var sum float64
	for _, v := range values {
		_, err := aggregator.SubmitRating(context.Background(), shopID, uuid.New(), v)
		require.NoError(t, err)
		sum += v
	}

	shop, _ := store.Shop(shopID)
	assert.Equal(t, int64(len(values)), shop.RatingCount)
	assert.InDelta(t, sum/float64(len(values)), shop.AverageRating, 1e-9)
	assert.Len(t, store.RatingEvents(shopID), len(values))
}

func TestSubmitRating_RejectsOutOfRange(t *testing.T) {
	store := memstore.New()
	shopID := store.PutShop(models.Shop{Name: "Ristretto Corner"})
	aggregator := loyalty.NewRatingAggregator(store)

	for _, v := range []float64{0, 0.99, 5.5, -1} {
		event, err := aggregator.SubmitRating(context.Background(), shopID, uuid.New(), v)
		assert.ErrorIs(t, err, loyalty.ErrInvalidRatingValue, "value %v", v)
		assert.Nil(t, event)
	}

	shop, _ := store.Shop(shopID)
	assert.Equal(t, int64(0), shop.RatingCount)
	assert.Equal(t, 0.0, shop.AverageRating)
	assert.Empty(t, store.RatingEvents(shopID))
}

func TestSubmitRating_ShopNotFound(t *testing.T) {
	store := memstore.New()
	aggregator := loyalty.NewRatingAggregator(store)

	event, err := aggregator.SubmitRating(context.Background(), uuid.New(), uuid.New(), 3.0)
	assert.ErrorIs(t, err, loyalty.ErrShopNotFound)
	assert.Nil(t, event)
}

func TestSubmitRating_ConcurrentSubmissionsLoseNoUpdates(t *testing.T) {
	store := memstore.New()
	shopID := store.PutShop(models.Shop{Name: "Ristretto Corner"})
	aggregator := loyalty.NewRatingAggregator(store)

	const workers = 50
	var sum float64
	values := make([]float64, workers)
	for i := range values {
		values[i] = 1.0 + float64(i%9)*0.5
		sum += values[i]
	}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(value float64) {
			defer wg.Done()
			_, err := aggregator.SubmitRating(context.Background(), shopID, uuid.New(), value)
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	shop, _ := store.Shop(shopID)
	assert.Equal(t, int64(workers), shop.RatingCount)
	assert.InDelta(t, sum/float64(workers), shop.AverageRating, 1e-9)
}
