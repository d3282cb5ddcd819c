package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/brewpoints/internal/config"
	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/middleware"
	"github.com/example/brewpoints/internal/models"
)

// RatingHandler accepts rating submissions and credits loyalty points for
// them.
type RatingHandler struct {
	aggregator *loyalty.RatingAggregator
	ledger     *loyalty.Ledger
	points     config.Loyalty
}

// NewRatingHandler constructs RatingHandler.
func NewRatingHandler(aggregator *loyalty.RatingAggregator, ledger *loyalty.Ledger, points config.Loyalty) *RatingHandler {
	return &RatingHandler{aggregator: aggregator, ledger: ledger, points: points}
}

type submitRatingRequest struct {
	Value float64 `json:"value"`
}

// SubmitRating records a rating for a shop and awards rating points keyed on
// the new rating event, so a retried request can never double-credit.
func (h *RatingHandler) SubmitRating(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	shopID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req submitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.aggregator.SubmitRating(c.Context(), shopID, userID, req.Value)
	if err != nil {
		return loyaltyError(err)
	}

	description := fmt.Sprintf("Rated a shop %.1f stars", req.Value)
	if err := h.ledger.AwardPoints(c.Context(), userID, h.points.RatingPoints, models.ActionRating, description, event.ID.String()); err != nil {
		// The rating itself landed; log the award failure instead of failing
		// the whole request. The client can retry and the idempotency key
		// keeps the ledger correct.
		log.Printf("rating points award failed for user %s: %v", userID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"rating_id": event.ID,
			"value":     event.Value,
		},
	})
}

// loyaltyError translates loyalty sentinels into HTTP errors. Persistence
// failures surface as 503 so clients know a retry may succeed.
func loyaltyError(err error) error {
	switch {
	case errors.Is(err, loyalty.ErrInvalidRatingValue):
		return fiber.NewError(fiber.StatusBadRequest, "rating value must be between 1.0 and 5.0")
	case errors.Is(err, loyalty.ErrInvalidAward):
		return fiber.NewError(fiber.StatusBadRequest, "invalid points award")
	case errors.Is(err, loyalty.ErrShopNotFound):
		return fiber.NewError(fiber.StatusNotFound, "shop not found")
	case errors.Is(err, loyalty.ErrAccountNotFound):
		return fiber.NewError(fiber.StatusNotFound, "loyalty account not found")
	case errors.Is(err, loyalty.ErrPersistenceUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "storage temporarily unavailable")
	}
	return err
}
