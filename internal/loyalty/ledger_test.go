package loyalty_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/models"
	"github.com/example/brewpoints/internal/storage/memstore"
)

func TestAwardPoints_CreatesAccountLazily(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	_, err := store.Account(context.Background(), userID)
	require.ErrorIs(t, err, loyalty.ErrAccountNotFound)

	err = ledger.AwardPoints(context.Background(), userID, 10, models.ActionRating, "Rated a shop", "r1")
	require.NoError(t, err)

	account, err := store.Account(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.TotalPoints)
	assert.Equal(t, int64(1), account.RatingCount)
	assert.Equal(t, 1, account.CurrentLevel)
	assert.Equal(t, int64(90), account.PointsToNextLevel)
}

func TestAwardPoints_Idempotent(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		err := ledger.AwardPoints(context.Background(), userID, 10, models.ActionRating, "Rated a shop", "r1")
		require.NoError(t, err)
	}

	account, err := store.Account(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.TotalPoints)
	assert.Equal(t, int64(1), account.RatingCount)

	entries := store.Transactions(userID)
	require.Len(t, entries, 1)
	assert.Equal(t, "r1", entries[0].RelatedID)
}

func TestAwardPoints_SameRelatedIDDifferentActionsBothCount(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	require.NoError(t, ledger.AwardPoints(context.Background(), userID, 10, models.ActionRating, "", "x1"))
	require.NoError(t, ledger.AwardPoints(context.Background(), userID, 15, models.ActionReview, "", "x1"))

	account, _ := store.Account(context.Background(), userID)
	assert.Equal(t, int64(25), account.TotalPoints)
	assert.Len(t, store.Transactions(userID), 2)
}

func TestAwardPoints_RecomputesLevel(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	require.NoError(t, ledger.AwardPoints(context.Background(), userID, 95, models.ActionCouponRedeem, "", "c1"))
	account, _ := store.Account(context.Background(), userID)
	assert.Equal(t, 1, account.CurrentLevel)
	assert.Equal(t, int64(5), account.PointsToNextLevel)

	require.NoError(t, ledger.AwardPoints(context.Background(), userID, 5, models.ActionCafeVisit, "", "v1"))
	account, _ = store.Account(context.Background(), userID)
	assert.Equal(t, 2, account.CurrentLevel)
	assert.Equal(t, int64(100), account.TotalPoints)
	assert.Equal(t, int64(150), account.PointsToNextLevel)
	assert.Equal(t, int64(1), account.RedemptionCount)
	assert.Equal(t, int64(1), account.VisitCount)
}

func TestAwardPoints_RejectsInvalidInput(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	assert.ErrorIs(t, ledger.AwardPoints(context.Background(), userID, 0, models.ActionRating, "", "r1"), loyalty.ErrInvalidAward)
	assert.ErrorIs(t, ledger.AwardPoints(context.Background(), userID, -5, models.ActionRating, "", "r1"), loyalty.ErrInvalidAward)
	assert.ErrorIs(t, ledger.AwardPoints(context.Background(), userID, 10, models.ActionKind("teleport"), "", "r1"), loyalty.ErrInvalidAward)

	_, err := store.Account(context.Background(), userID)
	assert.ErrorIs(t, err, loyalty.ErrAccountNotFound)
}

func TestAwardBadge_Idempotent(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	userID := uuid.New()

	require.NoError(t, ledger.AwardBadge(context.Background(), userID, "early_bird"))
	require.NoError(t, ledger.AwardBadge(context.Background(), userID, "early_bird"))
	require.NoError(t, ledger.AwardBadge(context.Background(), userID, "regular"))

	account, err := store.Account(context.Background(), userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"early_bird", "regular"}, []string(account.Badges))
}
