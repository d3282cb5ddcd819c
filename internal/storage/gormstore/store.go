package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/models"
)

// Store implements loyalty.Store on top of a GORM Postgres connection.
// Atomicity comes from database transactions; ForUpdate reads take
// SELECT ... FOR UPDATE row locks so concurrent mutations of the same shop or
// account serialize instead of computing from a shared stale snapshot.
type Store struct {
	db *gorm.DB
}

// New constructs a Store around db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Atomically runs fn inside a single database transaction.
func (s *Store) Atomically(ctx context.Context, fn func(loyalty.Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx})
	})
	return translate(err)
}

// Account returns the user's loyalty account.
func (s *Store) Account(ctx context.Context, userID uuid.UUID) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	if err := s.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrAccountNotFound
		}
		return nil, translate(err)
	}
	return &account, nil
}

// CountAccountsAbove counts accounts holding strictly more than points.
func (s *Store) CountAccountsAbove(ctx context.Context, points int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.LoyaltyAccount{}).
		Where("total_points > ?", points).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

// TopAccounts returns the top limit accounts by points, ties in creation
// order.
func (s *Store) TopAccounts(ctx context.Context, limit int) ([]models.LoyaltyAccount, error) {
	var accounts []models.LoyaltyAccount
	err := s.db.WithContext(ctx).
		Order("total_points desc, created_at asc").
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, translate(err)
	}
	return accounts, nil
}

// SetAccountRank caches the computed rank on the account row.
func (s *Store) SetAccountRank(ctx context.Context, userID uuid.UUID, rank int64) error {
	err := s.db.WithContext(ctx).
		Model(&models.LoyaltyAccount{}).
		Where("user_id = ?", userID).
		Update("rank", rank).Error
	return translate(err)
}

type storeTx struct {
	db *gorm.DB
}

func (t *storeTx) ShopForUpdate(id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&shop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrShopNotFound
		}
		return nil, err
	}
	return &shop, nil
}

func (t *storeTx) SaveShop(shop *models.Shop) error {
	return t.db.Save(shop).Error
}

func (t *storeTx) AppendRatingEvent(event *models.RatingEvent) error {
	return t.db.Create(event).Error
}

func (t *storeTx) AccountForUpdate(userID uuid.UUID) (*models.LoyaltyAccount, error) {
	// Insert-if-absent keeps two concurrent first awards from racing: the
	// conflict target is the unique user_id index, the loser's insert is a
	// no-op and both proceed to lock the same row.
	seed := models.LoyaltyAccount{
		UserID:       userID,
		CurrentLevel: 1,
		Badges:       pq.StringArray{},
	}
	err := t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, err
	}

	var account models.LoyaltyAccount
	err = t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (t *storeTx) SaveAccount(account *models.LoyaltyAccount) error {
	return t.db.Save(account).Error
}

func (t *storeTx) HasPointTransaction(userID uuid.UUID, action models.ActionKind, relatedID string) (bool, error) {
	var count int64
	err := t.db.Model(&models.PointTransaction{}).
		Where("user_id = ? AND action = ? AND related_id = ?", userID, action, relatedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t *storeTx) AppendPointTransaction(entry *models.PointTransaction) error {
	return t.db.Create(entry).Error
}

// translate maps database failures onto the loyalty error taxonomy. Domain
// sentinels pass through untouched; anything else means the store misbehaved
// and is reported as retryable unavailability.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, loyalty.ErrShopNotFound),
		errors.Is(err, loyalty.ErrAccountNotFound),
		errors.Is(err, loyalty.ErrInvalidRatingValue),
		errors.Is(err, loyalty.ErrInvalidAward),
		errors.Is(err, loyalty.ErrPersistenceUnavailable):
		return err
	}
	return fmt.Errorf("%w: %v", loyalty.ErrPersistenceUnavailable, err)
}
