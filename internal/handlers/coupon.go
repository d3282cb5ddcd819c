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

// CouponHandler manages coupons and redemptions.
type CouponHandler struct {
	db     *gorm.DB
	ledger *loyalty.Ledger
	points config.Loyalty
}

// NewCouponHandler constructs CouponHandler.
func NewCouponHandler(db *gorm.DB, ledger *loyalty.Ledger, points config.Loyalty) *CouponHandler {
	return &CouponHandler{db: db, ledger: ledger, points: points}
}

// ListCoupons returns active coupons, optionally for one shop.
func (h *CouponHandler) ListCoupons(c *fiber.Ctx) error {
	query := h.db.Model(&models.Coupon{}).Where("is_active = ?", true)
	if shopID := c.Query("shop_id"); shopID != "" {
		id, err := uuid.Parse(shopID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid shop_id")
		}
		query = query.Where("shop_id = ?", id)
	}

	var coupons []models.Coupon
	if err := query.Order("valid_until asc").Find(&coupons).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": coupons})
}

type couponRequest struct {
	ShopID          string    `json:"shop_id"`
	Code            string    `json:"code"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent int       `json:"discount_percent"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
}

// CreateCoupon issues a new coupon for a shop.
func (h *CouponHandler) CreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	shopID, err := uuid.Parse(req.ShopID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid shop_id")
	}
	if req.Code == "" || req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code and title are required")
	}

	coupon := models.Coupon{
		ShopID:          shopID,
		Code:            req.Code,
		Title:           req.Title,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
		IsActive:        true,
	}

	if err := h.db.Create(&coupon).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": coupon})
}

// DeactivateCoupon turns a coupon off without deleting its redemptions.
func (h *CouponHandler) DeactivateCoupon(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Coupon{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "coupon not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "coupon deactivated"})
}

// RedeemCoupon records a redemption and awards points once per user per
// coupon; the coupon id is the idempotency key, so redeeming the same coupon
// again neither fails nor double-credits.
func (h *CouponHandler) RedeemCoupon(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	couponID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", couponID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "coupon not found")
		}
		return err
	}

	now := time.Now()
	if !coupon.IsActive || now.Before(coupon.ValidFrom) || now.After(coupon.ValidUntil) {
		return fiber.NewError(fiber.StatusConflict, "coupon is not redeemable")
	}

	var redeemed int64
	if err := h.db.Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&redeemed).Error; err != nil {
		return err
	}
	if redeemed == 0 {
		redemption := models.CouponRedemption{
			CouponID:   couponID,
			UserID:     userID,
			RedeemedAt: now,
		}
		if err := h.db.Create(&redemption).Error; err != nil {
			return err
		}
	}

	if err := h.ledger.AwardPoints(c.Context(), userID, h.points.CouponRedeemPoints, models.ActionCouponRedeem, "Redeemed "+coupon.Title, coupon.ID.String()); err != nil {
		log.Printf("redeem points award failed for user %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"coupon_id":        coupon.ID,
			"discount_percent": coupon.DiscountPercent,
		},
	})
}
