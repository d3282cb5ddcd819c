package loyalty

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/models"
)

// Ranker computes leaderboard positions over persisted point totals.
type Ranker struct {
	store Store
}

// NewRanker constructs a Ranker backed by store.
func NewRanker(store Store) *Ranker {
	return &Ranker{store: store}
}

// Rank returns the user's 1-based leaderboard position, defined as the number
// of accounts with strictly more points plus one. Tied users therefore share
// the same rank rather than receiving a dense sequential one; this matches
// how leaderboards display ties and must not be "fixed" to dense ranking.
// The result is written back onto the account as a cached snapshot; staleness
// between computation and display is expected.
func (r *Ranker) Rank(ctx context.Context, userID uuid.UUID) (int64, error) {
	account, err := r.store.Account(ctx, userID)
	if err != nil {
		return 0, err
	}

	above, err := r.store.CountAccountsAbove(ctx, account.TotalPoints)
	if err != nil {
		return 0, err
	}
	rank := above + 1

	if err := r.store.SetAccountRank(ctx, userID, rank); err != nil {
		return 0, err
	}
	return rank, nil
}

// Leaderboard returns the top limit accounts by total points descending,
// ties in stable storage order.
func (r *Ranker) Leaderboard(ctx context.Context, limit int) ([]models.LoyaltyAccount, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.store.TopAccounts(ctx, limit)
}
