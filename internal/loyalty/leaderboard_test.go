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

func seedAccount(t *testing.T, store *memstore.Store, ledger *loyalty.Ledger, points int64) uuid.UUID {
	t.Helper()
	userID := uuid.New()
	err := ledger.AwardPoints(context.Background(), userID, points, models.ActionCouponRedeem, "seed", uuid.NewString())
	require.NoError(t, err)
	return userID
}

func TestRank_TiedUsersShareARank(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	ranker := loyalty.NewRanker(store)

	a := seedAccount(t, store, ledger, 100)
	b := seedAccount(t, store, ledger, 100)
	c := seedAccount(t, store, ledger, 50)

	rankA, err := ranker.Rank(context.Background(), a)
	require.NoError(t, err)
	rankB, err := ranker.Rank(context.Background(), b)
	require.NoError(t, err)
	rankC, err := ranker.Rank(context.Background(), c)
	require.NoError(t, err)

	// Rank is count(strictly greater) + 1, so ties share a rank and the
	// sequence is not dense.
	assert.Equal(t, int64(1), rankA)
	assert.Equal(t, int64(1), rankB)
	assert.Equal(t, int64(3), rankC)
}

func TestRank_CachesSnapshotOnAccount(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	ranker := loyalty.NewRanker(store)

	seedAccount(t, store, ledger, 200)
	userID := seedAccount(t, store, ledger, 50)

	rank, err := ranker.Rank(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	account, err := store.Account(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), account.Rank)
}

func TestRank_AccountNotFound(t *testing.T) {
	store := memstore.New()
	ranker := loyalty.NewRanker(store)

	_, err := ranker.Rank(context.Background(), uuid.New())
	assert.ErrorIs(t, err, loyalty.ErrAccountNotFound)
}

func TestLeaderboard_OrdersByPointsWithStableTies(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	ranker := loyalty.NewRanker(store)

	low := seedAccount(t, store, ledger, 10)
	firstTied := seedAccount(t, store, ledger, 100)
	secondTied := seedAccount(t, store, ledger, 100)
	top := seedAccount(t, store, ledger, 500)

	accounts, err := ranker.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, accounts, 4)

	assert.Equal(t, top, accounts[0].UserID)
	// Tied accounts keep insertion order.
	assert.Equal(t, firstTied, accounts[1].UserID)
	assert.Equal(t, secondTied, accounts[2].UserID)
	assert.Equal(t, low, accounts[3].UserID)
}

func TestLeaderboard_HonorsLimit(t *testing.T) {
	store := memstore.New()
	ledger := loyalty.NewLedger(store, nil)
	ranker := loyalty.NewRanker(store)

	for i := int64(1); i <= 5; i++ {
		seedAccount(t, store, ledger, i*10)
	}

	accounts, err := ranker.Leaderboard(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, int64(50), accounts[0].TotalPoints)
	assert.Equal(t, int64(40), accounts[1].TotalPoints)
	assert.Equal(t, int64(30), accounts[2].TotalPoints)
}
