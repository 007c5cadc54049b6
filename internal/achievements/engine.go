// Package achievements evaluates a registry of named conditions against the
// latest session and aggregate stats, unlocking each achievement at most
// once. Conditions are independent: one misbehaving predicate must never
// block the rest of the batch.
package achievements

import (
	"time"

	"kinetrack/internal/progress"
	"kinetrack/internal/storage"
)

// Stats is the aggregate snapshot conditions evaluate against.
type Stats struct {
	TotalSessions int
	Streak        int
	TotalPoints   int
	Level         int
	NewBest       bool
}

// Context is what a condition sees: the most recent session entry (may be
// nil in legacy no-argument evaluation) and the aggregate stats.
type Context struct {
	Entry *progress.Entry
	Stats Stats
}

// Definition describes one achievement. Condition must be deterministic and
// side-effect free. Metric, when set, is the quantity the condition
// thresholds on; progress reporting reuses it so the two can never diverge.
type Definition struct {
	ID          string
	Name        string
	Description string
	Condition   func(Context) bool
	Metric      func(Stats) (current, target int)
}

// Progress is the UI-facing progress of one achievement.
type Progress struct {
	Unlocked bool
	Progress int
	Target   int
}

// Logger is the slice of a leveled logger the engine needs. A nil Logger
// silences it.
type Logger interface {
	Warn(msg any, keyvals ...any)
}

type Engine struct {
	kv     *storage.KV
	defs   []Definition
	logger Logger

	// statsFn computes current aggregate stats for legacy no-argument
	// evaluation.
	statsFn func() Stats

	// Now stamps unlock times; tests pin it.
	Now func() time.Time
}

func New(kv *storage.KV, defs []Definition, statsFn func() Stats, logger Logger) *Engine {
	return &Engine{kv: kv, defs: defs, statsFn: statsFn, logger: logger, Now: time.Now}
}

func achievementKey(id string) string { return "achievement:" + id }

// Unlocked reports whether an achievement has been unlocked.
func (e *Engine) Unlocked(id string) bool {
	return e.kv.Has(achievementKey(id))
}

// UnlockedAt returns the recorded unlock timestamp.
func (e *Engine) UnlockedAt(id string) (string, bool) {
	ts := e.kv.GetString(achievementKey(id), "")
	return ts, ts != ""
}

// UnlockedIDs lists unlocked achievements in registry order.
func (e *Engine) UnlockedIDs() []string {
	out := []string{}
	for _, def := range e.defs {
		if e.Unlocked(def.ID) {
			out = append(out, def.ID)
		}
	}
	return out
}

// Definitions returns the registry.
func (e *Engine) Definitions() []Definition {
	return e.defs
}

// CheckAndUnlock evaluates every definition not yet unlocked against the
// given context and returns the newly unlocked ids in registry order.
// Idempotent: a second call with unchanged inputs returns nothing. A
// condition that panics is logged and skipped; later definitions still run.
func (e *Engine) CheckAndUnlock(entry *progress.Entry, stats Stats) []string {
	newly := []string{}
	ctx := Context{Entry: entry, Stats: stats}
	for _, def := range e.defs {
		if e.Unlocked(def.ID) {
			continue
		}
		if !e.evaluate(def, ctx) {
			continue
		}
		e.kv.Set(achievementKey(def.ID), e.Now().UTC().Format(time.RFC3339))
		newly = append(newly, def.ID)
	}
	return newly
}

// CheckAndUnlockNow is the legacy no-argument mode: stats are computed from
// the ledgers and no session entry is supplied.
func (e *Engine) CheckAndUnlockNow() []string {
	return e.CheckAndUnlock(nil, e.statsFn())
}

func (e *Engine) evaluate(def Definition, ctx Context) (unlocked bool) {
	defer func() {
		if r := recover(); r != nil {
			unlocked = false
			if e.logger != nil {
				e.logger.Warn("achievement condition panicked", "achievement", def.ID, "panic", r)
			}
		}
	}()
	if def.Condition == nil {
		return false
	}
	return def.Condition(ctx)
}

// GetProgress reports progress toward an achievement using the same metric
// its condition thresholds on. Entry-shaped achievements have no running
// metric; they report 0-or-done.
func (e *Engine) GetProgress(id string, stats Stats) Progress {
	for _, def := range e.defs {
		if def.ID != id {
			continue
		}
		unlocked := e.Unlocked(id)
		if def.Metric == nil {
			target := 1
			current := 0
			if unlocked {
				current = target
			}
			return Progress{Unlocked: unlocked, Progress: current, Target: target}
		}
		current, target := def.Metric(stats)
		if unlocked || current > target {
			current = target
		}
		return Progress{Unlocked: unlocked, Progress: current, Target: target}
	}
	return Progress{}
}

// Restore replaces the unlocked set with ids (import path). Timestamps are
// stamped at restore time since the transfer document does not carry them.
func (e *Engine) Restore(ids []string) {
	for _, def := range e.defs {
		e.kv.Remove(achievementKey(def.ID))
	}
	now := e.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		e.kv.Set(achievementKey(id), now)
	}
}
