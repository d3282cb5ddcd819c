package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLoyalty_MissingFileUsesDefaults(t *testing.T) {
	cfg := LoadLoyalty(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Equal(t, DefaultLoyalty(), cfg)
}

func TestLoadLoyalty_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loyalty.yml")
	content := "rating_points: 7\nlevel_thresholds: [0, 50, 150]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := LoadLoyalty(path)
	assert.Equal(t, int64(7), cfg.RatingPoints)
	assert.Equal(t, []int64{0, 50, 150}, cfg.LevelThresholds)
	// Unset keys keep their defaults.
	assert.Equal(t, int64(5), cfg.CafeVisitPoints)
}

func TestReviewAward_DetailedBonus(t *testing.T) {
	cfg := DefaultLoyalty()

	assert.Equal(t, cfg.ReviewPoints, cfg.ReviewAward(10))
	assert.Equal(t, cfg.ReviewPoints, cfg.ReviewAward(49))
	assert.Equal(t, cfg.DetailedReviewPoints, cfg.ReviewAward(50))
	assert.Equal(t, cfg.DetailedReviewPoints, cfg.ReviewAward(500))
}
