// Package gamify converts session outcomes into points and a derived level.
// The level is never stored: it is always recomputed from the point total
// against a fixed threshold table, so points and level cannot drift apart
// after a partial write or an import.
package gamify

import "kinetrack/internal/storage"

const (
	basePoints        = 10
	personalBestBonus = 25
	streakBonusPerDay = 2
	// streakBonusDays caps the linear streak bonus.
	streakBonusDays = 10

	keyTotalPoints = "total_points"
	keySessions    = "gamify_sessions"
)

// levelThresholds is ascending: level n requires levelThresholds[n-1]
// points. The table is fixed; changing it retroactively re-levels everyone,
// which is exactly the point of deriving level from points.
var levelThresholds = []int{0, 100, 250, 500, 1000, 1750, 2750, 4000, 5500, 7500}

// MaxLevel is the highest reachable level.
var MaxLevel = len(levelThresholds)

// CalculateLevel derives the level for a point total.
func CalculateLevel(points int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}

// PointsToNextLevel reports how many points remain until the next level,
// zero at max level.
func PointsToNextLevel(points int) int {
	level := CalculateLevel(points)
	if level >= MaxLevel {
		return 0
	}
	return levelThresholds[level] - points
}

// Result reports one award, including whether it crossed a level threshold.
type Result struct {
	PointsEarned int
	TotalPoints  int
	Level        int
	LeveledUp    bool
	NewLevel     int
}

type Ledger struct {
	kv *storage.KV
}

func New(kv *storage.KV) *Ledger {
	return &Ledger{kv: kv}
}

// TotalPoints returns the stored point total.
func (l *Ledger) TotalPoints() int {
	return l.kv.GetInt(keyTotalPoints, 0)
}

// SessionsCompleted returns the number of awarded sessions.
func (l *Ledger) SessionsCompleted() int {
	return l.kv.GetInt(keySessions, 0)
}

// Level derives the current level from the stored points.
func (l *Ledger) Level() int {
	return CalculateLevel(l.TotalPoints())
}

// Award grants points for one completed session: a base amount, a flat
// personal-best bonus, and a streak bonus linear in the current streak up to
// streakBonusDays. The exercise and score are accepted for call-site
// symmetry; today's formula does not weight by either.
func (l *Ledger) Award(exerciseID string, score int, isPersonalBest bool, currentStreak int) Result {
	earned := basePoints
	if isPersonalBest {
		earned += personalBestBonus
	}
	if currentStreak > 0 {
		bonusDays := currentStreak
		if bonusDays > streakBonusDays {
			bonusDays = streakBonusDays
		}
		earned += bonusDays * streakBonusPerDay
	}

	before := l.TotalPoints()
	total := before + earned
	l.kv.Set(keyTotalPoints, total)
	l.kv.Set(keySessions, l.SessionsCompleted()+1)

	oldLevel := CalculateLevel(before)
	newLevel := CalculateLevel(total)
	return Result{
		PointsEarned: earned,
		TotalPoints:  total,
		Level:        newLevel,
		LeveledUp:    newLevel > oldLevel,
		NewLevel:     newLevel,
	}
}

// RestorePoints overwrites the point total (import path). The level follows
// automatically since it is derived.
func (l *Ledger) RestorePoints(points int) {
	if points < 0 {
		points = 0
	}
	l.kv.Set(keyTotalPoints, points)
}
