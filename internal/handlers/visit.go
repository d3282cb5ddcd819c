package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/brewpoints/internal/config"
	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/middleware"
	"github.com/example/brewpoints/internal/models"
)

// VisitHandler records shop check-ins.
type VisitHandler struct {
	db     *gorm.DB
	ledger *loyalty.Ledger
	points config.Loyalty
}

// NewVisitHandler constructs VisitHandler.
func NewVisitHandler(db *gorm.DB, ledger *loyalty.Ledger, points config.Loyalty) *VisitHandler {
	return &VisitHandler{db: db, ledger: ledger, points: points}
}

// CheckIn records a visit to a shop and awards visit points keyed on the new
// visit record.
func (h *VisitHandler) CheckIn(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", shopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	visit := models.Visit{
		ShopID:    shopID,
		UserID:    userID,
		VisitedAt: time.Now(),
	}

	if err := h.db.Create(&visit).Error; err != nil {
		return err
	}

	if err := h.ledger.AwardPoints(c.Context(), userID, h.points.CafeVisitPoints, models.ActionCafeVisit, "Visited "+shop.Name, visit.ID.String()); err != nil {
		log.Printf("visit points award failed for user %s: %v", userID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"visit_id":   visit.ID,
			"visited_at": visit.VisitedAt,
		},
	})
}
