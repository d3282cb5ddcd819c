package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Loyalty holds the tunable point values and level thresholds. These are
// data, not logic: operators adjust them in the YAML file without touching
// code.
type Loyalty struct {
	RatingPoints            int64   `yaml:"rating_points"`
	ReviewPoints            int64   `yaml:"review_points"`
	DetailedReviewPoints    int64   `yaml:"detailed_review_points"`
	DetailedReviewMinLength int     `yaml:"detailed_review_min_length"`
	CouponRedeemPoints      int64   `yaml:"coupon_redeem_points"`
	CafeVisitPoints         int64   `yaml:"cafe_visit_points"`
	LevelThresholds         []int64 `yaml:"level_thresholds"`
}

// DefaultLoyalty returns the compiled-in point table.
func DefaultLoyalty() Loyalty {
	return Loyalty{
		RatingPoints:            10,
		ReviewPoints:            15,
		DetailedReviewPoints:    25,
		DetailedReviewMinLength: 50,
		CouponRedeemPoints:      20,
		CafeVisitPoints:         5,
		LevelThresholds:         []int64{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000},
	}
}

// LoadLoyalty reads the loyalty table from path, falling back to defaults
// when the file is absent. A present but malformed file is fatal rather than
// silently ignored.
func LoadLoyalty(path string) Loyalty {
	cfg := DefaultLoyalty()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("failed to read loyalty config %s: %v", path, err)
		}
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("failed to parse loyalty config %s: %v", path, err)
	}
	return cfg
}

// ReviewAward returns the points a review of the given text length earns,
// applying the detailed-review bonus at the configured minimum length.
func (l Loyalty) ReviewAward(textLength int) int64 {
	if textLength >= l.DetailedReviewMinLength {
		return l.DetailedReviewPoints
	}
	return l.ReviewPoints
}
