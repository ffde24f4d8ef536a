package material

// Level is a qualitative reading of a score against its maximum.
type Level string

// Qualitative levels.
const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// Qualitative thresholds as a percentage of the maximum score.
const (
	highLevelPercent   = 70.0
	mediumLevelPercent = 40.0
)

// QualitativeLevel classifies value as a share of maxValue: High at 70% and
// above, Medium at 40% and above, Low otherwise. A non-positive maxValue is
// always Low.
func QualitativeLevel(value, maxValue float64) Level {
	if maxValue <= 0 {
		return LevelLow
	}
	pct := value / maxValue * 100
	switch {
	case pct >= highLevelPercent:
		return LevelHigh
	case pct >= mediumLevelPercent:
		return LevelMedium
	default:
		return LevelLow
	}
}
