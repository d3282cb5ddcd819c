package loyalty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/brewpoints/internal/loyalty"
)

func TestLevelTable_Level(t *testing.T) {
	table := loyalty.DefaultLevels

	assert.Equal(t, 1, table.Level(0))
	assert.Equal(t, 1, table.Level(99))
	assert.Equal(t, 2, table.Level(100))
	assert.Equal(t, 2, table.Level(249))
	assert.Equal(t, 3, table.Level(250))
	assert.Equal(t, 10, table.Level(12000))
	assert.Equal(t, 10, table.Level(999999))
}

func TestLevelTable_Monotonic(t *testing.T) {
	table := loyalty.DefaultLevels

	prev := table.Level(0)
	for points := int64(1); points <= 13000; points += 7 {
		level := table.Level(points)
		assert.GreaterOrEqual(t, level, prev, "level dropped at %d points", points)
		prev = level
	}
}

func TestLevelTable_PointsToNext(t *testing.T) {
	table := loyalty.DefaultLevels

	assert.Equal(t, int64(100), table.PointsToNext(0))
	assert.Equal(t, int64(1), table.PointsToNext(99))
	assert.Equal(t, int64(150), table.PointsToNext(100))
	assert.Equal(t, int64(0), table.PointsToNext(12000))
	assert.Equal(t, int64(0), table.PointsToNext(999999))
}
