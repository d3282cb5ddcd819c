// Package memstore is an in-memory loyalty.Store used by tests. A single
// mutex serializes transactions, and writes stage in the transaction until it
// commits, so a failed transaction leaves no partial mutation behind.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/models"
)

// Store implements loyalty.Store over process memory.
type Store struct {
	mu           sync.Mutex
	shops        map[uuid.UUID]models.Shop
	accounts     map[uuid.UUID]models.LoyaltyAccount
	accountOrder []uuid.UUID
	ratings      []models.RatingEvent
	entries      []models.PointTransaction
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		shops:    make(map[uuid.UUID]models.Shop),
		accounts: make(map[uuid.UUID]models.LoyaltyAccount),
	}
}

// PutShop seeds a shop, assigning an id if missing.
func (s *Store) PutShop(shop models.Shop) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if shop.CreatedAt.IsZero() {
		shop.CreatedAt = time.Now()
	}
	s.shops[shop.ID] = shop
	return shop.ID
}

// Shop returns a copy of the stored shop for assertions.
func (s *Store) Shop(id uuid.UUID) (models.Shop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	return shop, ok
}

// RatingEvents returns all recorded rating events for a shop.
func (s *Store) RatingEvents(shopID uuid.UUID) []models.RatingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RatingEvent
	for _, ev := range s.ratings {
		if ev.ShopID == shopID {
			out = append(out, ev)
		}
	}
	return out
}

// Transactions returns the user's ledger entries.
func (s *Store) Transactions(userID uuid.UUID) []models.PointTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PointTransaction
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// Atomically serializes fn under the store mutex and applies its staged
// writes only on success.
func (s *Store) Atomically(ctx context.Context, fn func(loyalty.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return loyalty.ErrPersistenceUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:    s,
		shops:    make(map[uuid.UUID]models.Shop),
		accounts: make(map[uuid.UUID]models.LoyaltyAccount),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Account returns the user's loyalty account.
func (s *Store) Account(ctx context.Context, userID uuid.UUID) (*models.LoyaltyAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, loyalty.ErrAccountNotFound
	}
	copied := account
	return &copied, nil
}

// CountAccountsAbove counts accounts with strictly more than points.
func (s *Store) CountAccountsAbove(ctx context.Context, points int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, account := range s.accounts {
		if account.TotalPoints > points {
			count++
		}
	}
	return count, nil
}

// TopAccounts returns up to limit accounts by points descending, ties in
// insertion order.
func (s *Store) TopAccounts(ctx context.Context, limit int) ([]models.LoyaltyAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]models.LoyaltyAccount, 0, len(s.accountOrder))
	for _, userID := range s.accountOrder {
		ordered = append(ordered, s.accounts[userID])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalPoints > ordered[j].TotalPoints
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

// SetAccountRank caches rank on the account.
func (s *Store) SetAccountRank(ctx context.Context, userID uuid.UUID, rank int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return loyalty.ErrAccountNotFound
	}
	account.Rank = rank
	s.accounts[userID] = account
	return nil
}

type memTx struct {
	store       *Store
	shops       map[uuid.UUID]models.Shop
	accounts    map[uuid.UUID]models.LoyaltyAccount
	newAccounts []uuid.UUID
	ratings     []models.RatingEvent
	entries     []models.PointTransaction
}

func (t *memTx) ShopForUpdate(id uuid.UUID) (*models.Shop, error) {
	if shop, ok := t.shops[id]; ok {
		copied := shop
		return &copied, nil
	}
	shop, ok := t.store.shops[id]
	if !ok {
		return nil, loyalty.ErrShopNotFound
	}
	return &shop, nil
}

func (t *memTx) SaveShop(shop *models.Shop) error {
	t.shops[shop.ID] = *shop
	return nil
}

func (t *memTx) AppendRatingEvent(event *models.RatingEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	t.ratings = append(t.ratings, *event)
	return nil
}

func (t *memTx) AccountForUpdate(userID uuid.UUID) (*models.LoyaltyAccount, error) {
	if account, ok := t.accounts[userID]; ok {
		copied := account
		return &copied, nil
	}
	if account, ok := t.store.accounts[userID]; ok {
		return &account, nil
	}
	account := models.LoyaltyAccount{
		BaseModel:    models.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:       userID,
		CurrentLevel: 1,
	}
	t.accounts[userID] = account
	t.newAccounts = append(t.newAccounts, userID)
	return &account, nil
}

func (t *memTx) SaveAccount(account *models.LoyaltyAccount) error {
	t.accounts[account.UserID] = *account
	return nil
}

func (t *memTx) HasPointTransaction(userID uuid.UUID, action models.ActionKind, relatedID string) (bool, error) {
	for _, e := range t.store.entries {
		if e.UserID == userID && e.Action == action && e.RelatedID == relatedID {
			return true, nil
		}
	}
	for _, e := range t.entries {
		if e.UserID == userID && e.Action == action && e.RelatedID == relatedID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) AppendPointTransaction(entry *models.PointTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()
	t.entries = append(t.entries, *entry)
	return nil
}

func (t *memTx) commit() {
	for id, shop := range t.shops {
		t.store.shops[id] = shop
	}
	for _, userID := range t.newAccounts {
		t.store.accountOrder = append(t.store.accountOrder, userID)
	}
	for userID, account := range t.accounts {
		t.store.accounts[userID] = account
	}
	t.store.ratings = append(t.store.ratings, t.ratings...)
	t.store.entries = append(t.store.entries, t.entries...)
}
