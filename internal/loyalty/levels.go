package loyalty

// LevelTable maps a level to the minimum cumulative points required to reach
// it. Index 0 is level 1 and must hold 0; thresholds increase monotonically.
// The table is configuration data and can be swapped without code changes.
type LevelTable []int64

// DefaultLevels is the shipped threshold table (levels 1 through 10).
var DefaultLevels = LevelTable{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000}

// Level returns the highest level whose threshold is at or below points,
// scanning from the top of the table downward. Points below every threshold
// past the first still yield level 1.
func (t LevelTable) Level(points int64) int {
	for i := len(t) - 1; i >= 0; i-- {
		if points >= t[i] {
			return i + 1
		}
	}
	return 1
}

// PointsToNext returns how many points remain until the next level, or 0 when
// points already meets the last threshold; no level exists beyond the table
// and points simply accumulate.
func (t LevelTable) PointsToNext(points int64) int64 {
	level := t.Level(points)
	if level >= len(t) {
		return 0
	}
	return t[level] - points
}

// MaxLevel is the highest level the table defines.
func (t LevelTable) MaxLevel() int {
	return len(t)
}
