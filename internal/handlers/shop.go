package handlers

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/brewpoints/internal/models"
	"github.com/example/brewpoints/internal/utils"
)

// ShopHandler manages shop listing and owner-facing CRUD endpoints.
type ShopHandler struct {
	db *gorm.DB
}

// NewShopHandler constructs ShopHandler.
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

// ListShops returns shops, optionally filtered by category.
func (h *ShopHandler) ListShops(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Shop{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var shops []models.Shop
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&shops).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    shops,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetShop returns a single shop by id.
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var shop models.Shop
	if err := h.db.First(&shop, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "shop not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": shop})
}

type nearbyShop struct {
	models.Shop
	DistanceKm float64 `json:"distance_km"`
}

// NearbyShops returns shops within radius_km of the given coordinate,
// optionally filtered by a keyword against name and category, ordered nearest
// first. This backs the map-marker view in the client.
func (h *ShopHandler) NearbyShops(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat is required")
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lng is required")
	}

	radiusKm := 5.0
	if raw := c.Query("radius_km"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}
	keyword := strings.ToLower(strings.TrimSpace(c.Query("q")))

	var shops []models.Shop
	if err := h.db.Find(&shops).Error; err != nil {
		return err
	}

	var nearby []nearbyShop
	for _, shop := range shops {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(shop.Name), keyword) &&
			!strings.Contains(strings.ToLower(shop.Category), keyword) {
			continue
		}

		distance := utils.HaversineKm(lat, lng, shop.Latitude, shop.Longitude)
		if distance > radiusKm {
			continue
		}
		nearby = append(nearby, nearbyShop{Shop: shop, DistanceKm: distance})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return c.JSON(fiber.Map{"success": true, "data": nearby})
}

type shopRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	AddressLine string  `json:"address_line"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// CreateShop registers a new shop. Rating fields start at zero and are only
// ever touched by the rating aggregator.
func (h *ShopHandler) CreateShop(c *fiber.Ctx) error {
	var req shopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	shop := models.Shop{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		AddressLine: req.AddressLine,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := h.db.Create(&shop).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": shop})
}

type updateShopRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	AddressLine *string  `json:"address_line"`
	City        *string  `json:"city"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateShop updates shop fields. Rating fields are not updatable here.
func (h *ShopHandler) UpdateShop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.AddressLine != nil {
		updates["address_line"] = *req.AddressLine
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := h.db.Model(&models.Shop{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "shop not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "shop updated"})
}

// DeleteShop removes a shop.
func (h *ShopHandler) DeleteShop(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Shop{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "shop deleted"})
}
