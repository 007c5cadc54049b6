// Package progress records completed sessions: per-tier and per-exercise
// counters, personal bests, and a bounded rolling history used by the
// achievement engine.
package progress

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"kinetrack/internal/dates"
	"kinetrack/internal/storage"
)

const (
	// historyCap bounds the per-exercise rolling history; the oldest
	// entries are dropped past it.
	historyCap = 100

	// recentDefault caps GetAllRecentSessions when no limit is given.
	recentDefault = 50

	keyTotalSessions = "total_sessions"
	keyNewBest       = "new_best"
)

// reservedExtras are entry field names that caller-supplied extras may never
// overwrite.
var reservedExtras = []string{"id", "exerciseId", "difficulty", "score", "timestampMs", "isoDate"}

// StreakUpdater is the slice of the streak engine the ledger needs: every
// recorded session touches engagement state.
type StreakUpdater interface {
	Update(day string) (int, error)
}

type Ledger struct {
	kv     *storage.KV
	streak StreakUpdater

	// Now is the ledger's clock; tests pin it.
	Now func() time.Time
}

func New(kv *storage.KV, streak StreakUpdater) *Ledger {
	return &Ledger{kv: kv, streak: streak, Now: time.Now}
}

func sessionsKey(exerciseID string) string { return "sessions:" + exerciseID }
func bestKey(exerciseID string) string     { return "best:" + exerciseID }
func historyKey(exerciseID string) string  { return "history:" + exerciseID }

func tierSessionsKey(exerciseID, tier string) string {
	return fmt.Sprintf("sessions:%s:%s", exerciseID, tier)
}

func tierBestKey(exerciseID, tier string) string {
	return fmt.Sprintf("best:%s:%s", exerciseID, tier)
}

// Record appends a session to the history, bumps every counter, updates the
// personal best and advances the streak for today. Negative scores are
// clamped to zero.
func (l *Ledger) Record(exerciseID, difficulty string, score int, extras map[string]any) (RecordResult, error) {
	if exerciseID == "" || difficulty == "" {
		return RecordResult{}, fmt.Errorf("record: exercise and difficulty are required")
	}
	if score < 0 {
		score = 0
	}
	now := l.Now()
	day := dates.CanonicalDay(now)

	entry := Entry{
		ID:          uuid.NewString(),
		ExerciseID:  exerciseID,
		Difficulty:  difficulty,
		Score:       score,
		TimestampMS: now.UnixMilli(),
		Day:         day,
		Extras:      sanitizeExtras(extras),
	}
	l.appendHistory(entry)

	l.kv.Set(sessionsKey(exerciseID), l.GetSessionCount(exerciseID)+1)
	l.kv.Set(tierSessionsKey(exerciseID, difficulty), l.GetTierSessions(exerciseID, difficulty)+1)
	total := l.TotalSessions() + 1
	l.kv.Set(keyTotalSessions, total)

	isNewBest := score > l.GetPersonalBest(exerciseID)
	if isNewBest {
		l.kv.Set(bestKey(exerciseID), score)
	}
	if score > l.GetTierBest(exerciseID, difficulty) {
		l.kv.Set(tierBestKey(exerciseID, difficulty), score)
	}
	if isNewBest {
		l.kv.Set(keyNewBest, true)
	} else {
		l.kv.Remove(keyNewBest)
	}

	current, err := l.streak.Update(day)
	if err != nil {
		return RecordResult{}, fmt.Errorf("record: %w", err)
	}

	return RecordResult{
		IsNewBest:     isNewBest,
		TotalSessions: total,
		Streak:        current,
		Entry:         entry,
	}, nil
}

func sanitizeExtras(extras map[string]any) map[string]any {
	if len(extras) == 0 {
		return nil
	}
	out := make(map[string]any, len(extras))
	for k, v := range extras {
		out[k] = v
	}
	for _, k := range reservedExtras {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (l *Ledger) appendHistory(entry Entry) {
	var history []Entry
	l.kv.Get(historyKey(entry.ExerciseID), &history)
	history = append(history, entry)
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	l.kv.Set(historyKey(entry.ExerciseID), history)
}

// GetSessionCount returns the session count across all tiers of an exercise.
func (l *Ledger) GetSessionCount(exerciseID string) int {
	return l.kv.GetInt(sessionsKey(exerciseID), 0)
}

// GetPersonalBest returns the best score across all tiers of an exercise.
func (l *Ledger) GetPersonalBest(exerciseID string) int {
	return l.kv.GetInt(bestKey(exerciseID), 0)
}

// GetTierSessions returns the session count for one exercise/difficulty
// pair; the unlock engine evaluates thresholds against it.
func (l *Ledger) GetTierSessions(exerciseID, tier string) int {
	return l.kv.GetInt(tierSessionsKey(exerciseID, tier), 0)
}

// GetTierBest returns the best score for one exercise/difficulty pair.
func (l *Ledger) GetTierBest(exerciseID, tier string) int {
	return l.kv.GetInt(tierBestKey(exerciseID, tier), 0)
}

// TotalSessions returns the global session counter.
func (l *Ledger) TotalSessions() int {
	return l.kv.GetInt(keyTotalSessions, 0)
}

// ConsumeNewBest reads and clears the transient personal-best flag. A second
// call before the next session reports false.
func (l *Ledger) ConsumeNewBest() bool {
	v := l.kv.GetBool(keyNewBest, false)
	l.kv.Remove(keyNewBest)
	return v
}

// GetHistory returns up to limit history entries for an exercise, newest
// first. limit <= 0 returns everything retained.
func (l *Ledger) GetHistory(exerciseID string, limit int) []Entry {
	var history []Entry
	l.kv.Get(historyKey(exerciseID), &history)
	out := make([]Entry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, history[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetAllRecentSessions merges the histories of the given exercises and
// returns them newest first, capped at limit (default 50).
func (l *Ledger) GetAllRecentSessions(exerciseIDs []string, limit int) []Entry {
	if limit <= 0 {
		limit = recentDefault
	}
	merged := []Entry{}
	for _, id := range exerciseIDs {
		var history []Entry
		l.kv.Get(historyKey(id), &history)
		merged = append(merged, history...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TimestampMS > merged[j].TimestampMS
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// RestoreAggregate overwrites the per-exercise counters. Only the import
// path uses this; per-tier breakdowns are not part of the transfer document
// and start fresh after an import.
func (l *Ledger) RestoreAggregate(exerciseID string, sessions, best int) {
	if sessions < 0 {
		sessions = 0
	}
	if best < 0 {
		best = 0
	}
	l.kv.Set(sessionsKey(exerciseID), sessions)
	l.kv.Set(bestKey(exerciseID), best)
}

// RestoreTotalSessions overwrites the global session counter (import path).
func (l *Ledger) RestoreTotalSessions(n int) {
	if n < 0 {
		n = 0
	}
	l.kv.Set(keyTotalSessions, n)
}
