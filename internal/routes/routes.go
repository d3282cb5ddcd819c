package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/brewpoints/internal/config"
	"github.com/example/brewpoints/internal/handlers"
	"github.com/example/brewpoints/internal/loyalty"
	"github.com/example/brewpoints/internal/middleware"
	"github.com/example/brewpoints/internal/storage/gormstore"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	store := gormstore.New(db)
	levels := loyalty.LevelTable(cfg.Loyalty.LevelThresholds)

	aggregator := loyalty.NewRatingAggregator(store)
	ledger := loyalty.NewLedger(store, levels)
	ranker := loyalty.NewRanker(store)

	authHandler := handlers.NewAuthHandler(db, cfg)
	shopHandler := handlers.NewShopHandler(db)
	ratingHandler := handlers.NewRatingHandler(aggregator, ledger, cfg.Loyalty)
	reviewHandler := handlers.NewReviewHandler(db, ledger, cfg.Loyalty)
	couponHandler := handlers.NewCouponHandler(db, ledger, cfg.Loyalty)
	visitHandler := handlers.NewVisitHandler(db, ledger, cfg.Loyalty)
	loyaltyHandler := handlers.NewLoyaltyHandler(db, store, ledger, ranker)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Public shop routes
	shops := api.Group("/shops")
	shops.Get("/", shopHandler.ListShops)
	shops.Get("/nearby", shopHandler.NearbyShops)
	shops.Get("/:id", shopHandler.GetShop)
	shops.Get("/:id/reviews", reviewHandler.ListReviews)

	// Public coupons and leaderboard
	api.Get("/coupons", couponHandler.ListCoupons)
	api.Get("/leaderboard", loyaltyHandler.Leaderboard)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Post("/shops", shopHandler.CreateShop)
	protected.Put("/shops/:id", shopHandler.UpdateShop)
	protected.Delete("/shops/:id", shopHandler.DeleteShop)

	protected.Post("/shops/:id/ratings", ratingHandler.SubmitRating)
	protected.Post("/shops/:id/reviews", reviewHandler.CreateReview)
	protected.Post("/shops/:id/visits", visitHandler.CheckIn)

	protected.Post("/coupons", couponHandler.CreateCoupon)
	protected.Delete("/coupons/:id", couponHandler.DeactivateCoupon)
	protected.Post("/coupons/:id/redeem", couponHandler.RedeemCoupon)

	protected.Get("/loyalty", loyaltyHandler.GetAccount)
	protected.Get("/loyalty/rank", loyaltyHandler.GetRank)
	protected.Post("/loyalty/badges", loyaltyHandler.AwardBadge)
}
