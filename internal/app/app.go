// Package app wires the progress engine together: one store, one catalog,
// and the ledgers and engines that share them. The engine assumes a single
// writer; nothing here guards against two processes mutating the same
// database (see DESIGN.md).
package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"kinetrack/internal/achievements"
	"kinetrack/internal/catalog"
	"kinetrack/internal/gamify"
	"kinetrack/internal/progress"
	"kinetrack/internal/storage"
	"kinetrack/internal/streak"
	"kinetrack/internal/telemetry"
	"kinetrack/internal/transfer"
	"kinetrack/internal/unlock"
)

type App struct {
	Config       Config
	Catalog      catalog.Catalog
	KV           *storage.KV
	Ledger       *progress.Ledger
	Streak       *streak.Engine
	Points       *gamify.Ledger
	Unlocks      *unlock.Engine
	Achievements *achievements.Engine
	Transfer     *transfer.Engine

	backend storage.Backend
	journal *telemetry.Journal
	logger  *log.Logger
}

// New opens the store and wires every component. When the on-disk store
// cannot be opened (sandboxed filesystem, exhausted quota) the engine
// degrades to an in-memory store so the session still works; the user sees
// "no progress yet" rather than an error.
func New(cfg Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	var backend storage.Backend
	sqlite, err := storage.NewSQLite(cfg.DatabasePath())
	if err != nil {
		logger.Warn("persistent store unavailable, using in-memory store", "path", cfg.DatabasePath(), "err", err)
		backend = storage.NewMemory()
	} else {
		backend = sqlite
	}

	cat := catalog.Builtin()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	journal, err := telemetry.NewJournal(cfg.JournalPath)
	if err != nil {
		logger.Warn("journal unavailable", "path", cfg.JournalPath, "err", err)
	}

	kv := storage.NewKV(backend, cfg.Namespace)
	st := streak.New(kv)
	ledger := progress.New(kv, st)
	points := gamify.New(kv)
	unlocks := unlock.New(kv, cat, ledger)

	statsFn := func() achievements.Stats {
		return achievements.Stats{
			TotalSessions: ledger.TotalSessions(),
			Streak:        st.Current(),
			TotalPoints:   points.TotalPoints(),
			Level:         points.Level(),
			NewBest:       ledger.ConsumeNewBest(),
		}
	}
	ach := achievements.New(kv, achievements.Builtin(), statsFn, logger)

	return &App{
		Config:       cfg,
		Catalog:      cat,
		KV:           kv,
		Ledger:       ledger,
		Streak:       st,
		Points:       points,
		Unlocks:      unlocks,
		Achievements: ach,
		Transfer:     transfer.New(kv, cat, ledger, st, points, ach),
		backend:      backend,
		journal:      journal,
		logger:       logger,
	}, nil
}

// RecordSession runs the full pipeline for one finished session: ledger,
// streak, points, unlock scan, achievement scan. Everything the caller
// should react to comes back in the result.
func (a *App) RecordSession(exerciseID, difficulty string, score int, extras map[string]any) (SessionResult, error) {
	ex, ok := a.Catalog.Exercise(exerciseID)
	if !ok {
		return SessionResult{}, fmt.Errorf("unknown exercise %q", exerciseID)
	}
	if ex.TierIndex(difficulty) < 0 {
		return SessionResult{}, fmt.Errorf("unknown difficulty %q for exercise %q", difficulty, exerciseID)
	}

	a.Unlocks.SeedExercise(exerciseID)

	rec, err := a.Ledger.Record(exerciseID, difficulty, score, extras)
	if err != nil {
		return SessionResult{}, err
	}

	award := a.Points.Award(exerciseID, score, rec.IsNewBest, rec.Streak)
	newUnlocks := a.Unlocks.CheckAllUnlocks()
	stats := achievements.Stats{
		TotalSessions: rec.TotalSessions,
		Streak:        rec.Streak,
		TotalPoints:   award.TotalPoints,
		Level:         award.Level,
		NewBest:       a.Ledger.ConsumeNewBest(),
	}
	newAchievements := a.Achievements.CheckAndUnlock(&rec.Entry, stats)

	a.journal.Event("session_recorded", map[string]any{
		"exercise":   exerciseID,
		"difficulty": difficulty,
		"score":      rec.Entry.Score,
		"newBest":    rec.IsNewBest,
		"streak":     rec.Streak,
		"points":     award.PointsEarned,
	})
	if award.LeveledUp {
		a.journal.Event("level_up", map[string]any{"level": award.NewLevel})
	}
	for _, id := range newAchievements {
		a.journal.Event("achievement_unlocked", map[string]any{"achievement": id})
	}

	return SessionResult{
		Record:          rec,
		Points:          award,
		NewUnlocks:      newUnlocks,
		NewAchievements: newAchievements,
		LeveledUp:       award.LeveledUp,
		Level:           award.Level,
		Streak:          rec.Streak,
	}, nil
}

// Summary computes the headline stats view.
func (a *App) Summary() Summary {
	points := a.Points.TotalPoints()
	return Summary{
		TotalSessions: a.Ledger.TotalSessions(),
		TotalPoints:   points,
		Level:         gamify.CalculateLevel(points),
		PointsToNext:  gamify.PointsToNextLevel(points),
		Streak:        a.Streak.Current(),
		LastActiveDay: a.Streak.LastActiveDay(),
		Achievements:  len(a.Achievements.UnlockedIDs()),
	}
}

// RecentSessions lists the newest sessions across every catalog exercise.
func (a *App) RecentSessions(limit int) []progress.Entry {
	ids := make([]string, 0, len(a.Catalog.Exercises))
	for _, ex := range a.Catalog.Exercises {
		ids = append(ids, ex.ID)
	}
	return a.Ledger.GetAllRecentSessions(ids, limit)
}

func (a *App) Close() error {
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("close journal", "err", err)
	}
	return a.backend.Close()
}
