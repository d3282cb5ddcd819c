package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/models"
)

func TestAtomically_FailedTransactionLeavesNoPartialWrites(t *testing.T) {
	store := New()
	shopID := store.PutShop(models.Shop{Name: "Flat White House"})
	boom := errors.New("boom")

	err := store.Atomically(context.Background(), func(tx loyalty.Tx) error {
		shop, err := tx.ShopForUpdate(shopID)
		require.NoError(t, err)

		shop.AverageRating = 5
		shop.RatingCount = 1
		require.NoError(t, tx.SaveShop(shop))
		require.NoError(t, tx.AppendRatingEvent(&models.RatingEvent{ShopID: shopID}))

		account, err := tx.AccountForUpdate(uuid.New())
		require.NoError(t, err)
		require.NoError(t, tx.SaveAccount(account))

		return boom
	})
	require.ErrorIs(t, err, boom)

	shop, _ := store.Shop(shopID)
	assert.Equal(t, int64(0), shop.RatingCount)
	assert.Equal(t, 0.0, shop.AverageRating)
	assert.Empty(t, store.RatingEvents(shopID))

	accounts, err := store.TopAccounts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAtomically_CommitAppliesStagedWrites(t *testing.T) {
	store := New()
	shopID := store.PutShop(models.Shop{Name: "Flat White House"})

	err := store.Atomically(context.Background(), func(tx loyalty.Tx) error {
		shop, err := tx.ShopForUpdate(shopID)
		if err != nil {
			return err
		}
		shop.RatingCount = 3
		return tx.SaveShop(shop)
	})
	require.NoError(t, err)

	shop, _ := store.Shop(shopID)
	assert.Equal(t, int64(3), shop.RatingCount)
}
