package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/middleware"
	"github.com/example/brewpoints/internal/models"
	"github.com/example/brewpoints/internal/utils"
)

// LoyaltyHandler exposes the user's loyalty account, the leaderboard and
// badge administration.
type LoyaltyHandler struct {
	db     *gorm.DB
	store  loyalty.Store
	ledger *loyalty.Ledger
	ranker *loyalty.Ranker
}

// NewLoyaltyHandler constructs LoyaltyHandler.
func NewLoyaltyHandler(db *gorm.DB, store loyalty.Store, ledger *loyalty.Ledger, ranker *loyalty.Ranker) *LoyaltyHandler {
	return &LoyaltyHandler{db: db, store: store, ledger: ledger, ranker: ranker}
}

// GetAccount returns the caller's loyalty account with a page of ledger
// entries. Users who have not earned points yet see zeroed level-1 state
// rather than an error; the account row itself is only created on the first
// award.
func (h *LoyaltyHandler) GetAccount(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	account, err := h.store.Account(c.Context(), userID)
	if err != nil {
		if errors.Is(err, loyalty.ErrAccountNotFound) {
			levels := h.ledger.Levels()
			account = &models.LoyaltyAccount{
				UserID:            userID,
				CurrentLevel:      1,
				PointsToNextLevel: levels.PointsToNext(0),
			}
		} else {
			return loyaltyError(err)
		}
	}

	pg := utils.ParsePagination(c)
	var entries []models.PointTransaction
	if err := h.db.Where("user_id = ?", userID).
		Order("occurred_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&entries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"account":      account,
			"transactions": entries,
		},
	})
}

// GetRank computes the caller's leaderboard rank and caches it on the
// account. Tied point totals share a rank.
func (h *LoyaltyHandler) GetRank(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rank, err := h.ranker.Rank(c.Context(), userID)
	if err != nil {
		return loyaltyError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"rank": rank}})
}

// Leaderboard returns the top accounts by points.
func (h *LoyaltyHandler) Leaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit > 100 {
		limit = 100
	}

	accounts, err := h.ranker.Leaderboard(c.Context(), limit)
	if err != nil {
		return loyaltyError(err)
	}

	entries := make([]fiber.Map, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, fiber.Map{
			"position":      i + 1,
			"user_id":       account.UserID,
			"total_points":  account.TotalPoints,
			"current_level": account.CurrentLevel,
			"badges":        account.Badges,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": entries})
}

type awardBadgeRequest struct {
	BadgeID string `json:"badge_id"`
}

// AwardBadge grants a badge to the caller. Granting an already-held badge is
// a no-op success.
func (h *LoyaltyHandler) AwardBadge(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req awardBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.BadgeID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "badge_id is required")
	}

	if err := h.ledger.AwardBadge(c.Context(), userID, req.BadgeID); err != nil {
		return loyaltyError(err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "badge awarded"})
}
