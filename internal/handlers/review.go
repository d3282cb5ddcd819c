package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/brewpoints/internal/config"
	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/middleware"
	"github.com/example/brewpoints/internal/models"
	"github.com/example/brewpoints/internal/utils"
)

// ReviewHandler manages shop reviews.
type ReviewHandler struct {
	db     *gorm.DB
	ledger *loyalty.Ledger
	points config.Loyalty
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB, ledger *loyalty.Ledger, points config.Loyalty) *ReviewHandler {
	return &ReviewHandler{db: db, ledger: ledger, points: points}
}

type createReviewRequest struct {
	Text   string   `json:"text"`
	Rating *float64 `json:"rating"`
}

// CreateReview stores a review and awards review points, with the detailed
// bonus for texts at or above the configured length. The review id is the
// idempotency key for the award.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	review := models.Review{
		ShopID: shopID,
		UserID: userID,
		Text:   req.Text,
		Rating: req.Rating,
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	award := h.points.ReviewAward(len(req.Text))
	if err := h.ledger.AwardPoints(c.Context(), userID, award, models.ActionReview, "Reviewed "+shop.Name, review.ID.String()); err != nil {
		log.Printf("review points award failed for user %s: %v", userID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             review.ID,
			"points_awarded": award,
		},
	})
}

// ListReviews returns reviews for a shop, newest first.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Review{}).Where("shop_id = ?", shopID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var reviews []models.Review
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
