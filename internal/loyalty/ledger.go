package loyalty

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/models"
)

// Ledger awards loyalty points and maintains per-user accounts.
type Ledger struct {
	store  Store
	levels LevelTable
}

// NewLedger constructs a Ledger using the given level threshold table.
func NewLedger(store Store, levels LevelTable) *Ledger {
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	return &Ledger{store: store, levels: levels}
}

// Levels exposes the threshold table the ledger derives levels from.
func (l *Ledger) Levels() LevelTable {
	return l.levels
}

// AwardPoints credits points to the user for a qualifying action. The
// (userID, action, relatedID) triple is an idempotency key: if a ledger entry
// with the same triple already exists the call succeeds without mutating
// anything, so a retried network call can never credit a user twice. The
// account is created with zero defaults on the user's first award. Account
// mutation, level recomputation and the ledger entry land in one transaction.
func (l *Ledger) AwardPoints(ctx context.Context, userID uuid.UUID, points int64, action models.ActionKind, description, relatedID string) error {
	if points <= 0 || !action.Valid() {
		return ErrInvalidAward
	}

	return l.store.Atomically(ctx, func(tx Tx) error {
		exists, err := tx.HasPointTransaction(userID, action, relatedID)
		if err != nil {
			return err
		}
		if exists {
			// Duplicate award: success no-op.
			return nil
		}

		account, err := tx.AccountForUpdate(userID)
		if err != nil {
			return err
		}

		account.TotalPoints += points
		switch action {
		case models.ActionRating:
			account.RatingCount++
		case models.ActionReview:
			account.ReviewCount++
		case models.ActionCouponRedeem:
			account.RedemptionCount++
		case models.ActionCafeVisit:
			account.VisitCount++
		}
		account.CurrentLevel = l.levels.Level(account.TotalPoints)
		account.PointsToNextLevel = l.levels.PointsToNext(account.TotalPoints)

		if err := tx.SaveAccount(account); err != nil {
			return err
		}

		return tx.AppendPointTransaction(&models.PointTransaction{
			UserID:      userID,
			Points:      points,
			Action:      action,
			Description: description,
			RelatedID:   relatedID,
			OccurredAt:  time.Now(),
		})
	})
}

// AwardBadge adds a badge to the user's account. Adding an already-present
// badge is a no-op.
func (l *Ledger) AwardBadge(ctx context.Context, userID uuid.UUID, badgeID string) error {
	if badgeID == "" {
		return ErrInvalidAward
	}

	return l.store.Atomically(ctx, func(tx Tx) error {
		account, err := tx.AccountForUpdate(userID)
		if err != nil {
			return err
		}
		if slices.Contains(account.Badges, badgeID) {
			return nil
		}
		account.Badges = append(account.Badges, badgeID)
		return tx.SaveAccount(account)
	})
}
