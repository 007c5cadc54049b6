package app

import (
	"kinetrack/internal/gamify"
	"kinetrack/internal/progress"
	"kinetrack/internal/unlock"
)

// SessionResult aggregates everything a recorded session changed. The UI
// layer inspects it to drive celebrations and notifications; nothing here is
// pushed asynchronously.
type SessionResult struct {
	Record          progress.RecordResult
	Points          gamify.Result
	NewUnlocks      []unlock.Unlocked
	NewAchievements []string
	LeveledUp       bool
	Level           int
	Streak          int
}

// Summary is the headline stats view.
type Summary struct {
	TotalSessions int
	TotalPoints   int
	Level         int
	PointsToNext  int
	Streak        int
	LastActiveDay string
	Achievements  int
}
