// Package unlock gates difficulty tiers. Two independent gates: the
// rule-based gate persists an unlock set that only ever grows, and the
// advisory safety gate answers "should the user jump this far" without
// persisting anything.
package unlock

import (
	"fmt"

	"kinetrack/internal/catalog"
	"kinetrack/internal/storage"
)

// minSafetySessions is how many sessions on the preceding tier the safety
// gate wants before recommending a tier at ordinal index 2 or higher.
const minSafetySessions = 2

// Performance is the slice of the session ledger the rule evaluator reads.
type Performance interface {
	GetTierSessions(exerciseID, tier string) int
	GetTierBest(exerciseID, tier string) int
}

// Unlocked names one newly unlocked (exercise, difficulty) pair.
type Unlocked struct {
	ExerciseID string
	Difficulty string
}

type Engine struct {
	kv   *storage.KV
	cat  catalog.Catalog
	perf Performance
}

func New(kv *storage.KV, cat catalog.Catalog, perf Performance) *Engine {
	return &Engine{kv: kv, cat: cat, perf: perf}
}

func unlockedKey(exerciseID, tier string) string {
	return fmt.Sprintf("unlock:%s:%s", exerciseID, tier)
}

// SeedExercise force-unlocks the easiest tier of an exercise. Called on
// first interaction so a user can never be locked out of every tier.
func (e *Engine) SeedExercise(exerciseID string) {
	ex, ok := e.cat.Exercise(exerciseID)
	if !ok {
		return
	}
	key := unlockedKey(exerciseID, ex.FirstTier())
	if !e.kv.GetBool(key, false) {
		e.kv.Set(key, true)
	}
}

// IsUnlocked reports whether a tier is available: unconditionally when no
// rule gates it, otherwise only when already in the unlock set.
func (e *Engine) IsUnlocked(exerciseID, difficulty string) bool {
	if _, gated := e.cat.RuleFor(exerciseID, difficulty); !gated {
		return true
	}
	return e.kv.GetBool(unlockedKey(exerciseID, difficulty), false)
}

// CheckAllUnlocks scans every rule-gated tier not yet unlocked and unlocks
// those whose prerequisite-tier performance meets the rule's thresholds.
// Already-unlocked tiers are skipped, so redundant calls are harmless; the
// caller runs this after every recorded session.
func (e *Engine) CheckAllUnlocks() []Unlocked {
	newly := []Unlocked{}
	for _, ex := range e.cat.Exercises {
		for _, rule := range ex.Unlocks {
			key := unlockedKey(ex.ID, rule.Difficulty)
			if e.kv.GetBool(key, false) {
				continue
			}
			sessions := e.perf.GetTierSessions(ex.ID, rule.Prerequisite)
			best := e.perf.GetTierBest(ex.ID, rule.Prerequisite)
			if sessions >= rule.MinSessions && best >= rule.MinScore {
				e.kv.Set(key, true)
				newly = append(newly, Unlocked{ExerciseID: ex.ID, Difficulty: rule.Difficulty})
			}
		}
	}
	return newly
}

// UnlockedTiers lists the currently available tiers of an exercise in
// catalog order.
func (e *Engine) UnlockedTiers(exerciseID string) []string {
	ex, ok := e.cat.Exercise(exerciseID)
	if !ok {
		return nil
	}
	out := []string{}
	for _, tier := range ex.Difficulties {
		if e.IsUnlocked(exerciseID, tier) {
			out = append(out, tier)
		}
	}
	return out
}

// IsSafeToSelect is the therapeutic safety gate: the two easiest tiers are
// always safe, and a higher tier is safe once the tier immediately below it
// has enough recorded sessions. Advisory only; the UI may let the user
// override it. When unsafe, the second return value explains why.
func (e *Engine) IsSafeToSelect(exerciseID, difficulty string) (bool, string) {
	ex, ok := e.cat.Exercise(exerciseID)
	if !ok {
		return false, fmt.Sprintf("unknown exercise %q", exerciseID)
	}
	idx := ex.TierIndex(difficulty)
	if idx < 0 {
		return false, fmt.Sprintf("unknown difficulty %q for %s", difficulty, exerciseID)
	}
	if idx < 2 {
		return true, ""
	}
	prev := ex.Difficulties[idx-1]
	if e.perf.GetTierSessions(exerciseID, prev) >= minSafetySessions {
		return true, ""
	}
	return false, fmt.Sprintf("complete at least %d %s sessions of %s before moving up to %s",
		minSafetySessions, prev, ex.Name, difficulty)
}
