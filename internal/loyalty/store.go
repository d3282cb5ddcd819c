package loyalty

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/models"
)

// Tx is the unit of work handed to Atomically. Every read performed through
// it sees a snapshot isolated from concurrent transactions, and *ForUpdate
// reads additionally lock the row so no two transactions compute from the
// same pre-update state.
type Tx interface {
	// ShopForUpdate returns the shop locked for the remainder of the
	// transaction, or ErrShopNotFound.
	ShopForUpdate(id uuid.UUID) (*models.Shop, error)
	SaveShop(shop *models.Shop) error
	AppendRatingEvent(event *models.RatingEvent) error

	// AccountForUpdate returns the user's loyalty account locked for the
	// remainder of the transaction, creating it with zero defaults first if
	// the user has never earned points. Creation is race-safe: two concurrent
	// first awards for the same user both observe one account.
	AccountForUpdate(userID uuid.UUID) (*models.LoyaltyAccount, error)
	SaveAccount(account *models.LoyaltyAccount) error

	// HasPointTransaction reports whether a ledger entry already exists for
	// the (user, action, relatedID) idempotency triple.
	HasPointTransaction(userID uuid.UUID, action models.ActionKind, relatedID string) (bool, error)
	AppendPointTransaction(entry *models.PointTransaction) error
}

// Store is the narrow persistence contract the loyalty module depends on.
// Any backend providing atomic read-modify-write transactions with conflict
// retry can implement it; the module never reads a value, computes in memory
// and writes it back across two separate calls.
type Store interface {
	// Atomically runs fn inside one transaction. Either every write fn makes
	// is applied or none is. Transient conflicts are retried by the
	// implementation; exhausted retries surface as ErrPersistenceUnavailable.
	Atomically(ctx context.Context, fn func(Tx) error) error

	// Account returns the user's loyalty account, or ErrAccountNotFound.
	Account(ctx context.Context, userID uuid.UUID) (*models.LoyaltyAccount, error)

	// CountAccountsAbove returns how many accounts hold strictly more than
	// points.
	CountAccountsAbove(ctx context.Context, points int64) (int64, error)

	// TopAccounts returns up to limit accounts ordered by total points
	// descending, ties in stable creation order.
	TopAccounts(ctx context.Context, limit int) ([]models.LoyaltyAccount, error)

	// SetAccountRank persists the cached rank snapshot for the user.
	SetAccountRank(ctx context.Context, userID uuid.UUID, rank int64) error
}
