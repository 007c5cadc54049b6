package achievements

import (
	"testing"
	"time"

	"kinetrack/internal/progress"
	"kinetrack/internal/storage"
)

type recordingLogger struct {
	warnings int
}

func (l *recordingLogger) Warn(msg any, keyvals ...any) { l.warnings++ }

func newEngine(defs []Definition, statsFn func() Stats) (*Engine, *recordingLogger) {
	logger := &recordingLogger{}
	kv := storage.NewKV(storage.NewMemory(), "t_v1")
	e := New(kv, defs, statsFn, logger)
	e.Now = func() time.Time {
		return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	}
	return e, logger
}

func TestCheckAndUnlockIsIdempotent(t *testing.T) {
	e, _ := newEngine(Builtin(), nil)
	stats := Stats{TotalSessions: 12, Streak: 3, Level: 1}

	first := e.CheckAndUnlock(nil, stats)
	want := []string{"first_steps", "warming_up", "streak_3"}
	if len(first) != len(want) {
		t.Fatalf("expected %v, got %v", want, first)
	}
	for i, id := range want {
		if first[i] != id {
			t.Fatalf("expected %v, got %v", want, first)
		}
	}

	second := e.CheckAndUnlock(nil, stats)
	if len(second) != 0 {
		t.Fatalf("expected empty second pass, got %v", second)
	}
	if got := e.UnlockedIDs(); len(got) != 3 {
		t.Fatalf("expected 3 unlocked, got %v", got)
	}
	if ts, ok := e.UnlockedAt("first_steps"); !ok || ts != "2026-01-05T10:00:00Z" {
		t.Fatalf("unexpected unlock timestamp %q ok=%v", ts, ok)
	}
}

func TestPanickingConditionIsIsolated(t *testing.T) {
	defs := []Definition{
		{
			ID:   "faulty",
			Name: "Faulty",
			Condition: func(c Context) bool {
				panic("boom")
			},
		},
		counter("solid", "Solid", "", totalSessions, 1),
	}
	e, logger := newEngine(defs, nil)

	newly := e.CheckAndUnlock(nil, Stats{TotalSessions: 1})
	if len(newly) != 1 || newly[0] != "solid" {
		t.Fatalf("expected solid to unlock despite faulty, got %v", newly)
	}
	if logger.warnings != 1 {
		t.Fatalf("expected 1 warning, got %d", logger.warnings)
	}
	if e.Unlocked("faulty") {
		t.Fatal("faulty must stay locked")
	}
}

func TestEntryShapedConditions(t *testing.T) {
	e, _ := newEngine(Builtin(), nil)

	entry := &progress.Entry{
		ExerciseID: "bubble",
		Difficulty: "hard",
		Score:      200,
		Extras:     map[string]any{"accuracy": 0.97, "comboStreak": float64(12)},
	}
	newly := e.CheckAndUnlock(entry, Stats{TotalSessions: 1})
	got := map[string]bool{}
	for _, id := range newly {
		got[id] = true
	}
	if !got["sharpshooter"] || !got["combo_master"] {
		t.Fatalf("expected sharpshooter and combo_master, got %v", newly)
	}

	// Easy difficulty does not qualify for sharpshooter.
	e2, _ := newEngine(Builtin(), nil)
	entry.Difficulty = "easy"
	newly = e2.CheckAndUnlock(entry, Stats{})
	for _, id := range newly {
		if id == "sharpshooter" {
			t.Fatal("sharpshooter must require hard difficulty")
		}
	}
}

func TestNoArgModeUsesStatsFn(t *testing.T) {
	called := false
	e, _ := newEngine(Builtin(), func() Stats {
		called = true
		return Stats{TotalSessions: 1}
	})
	newly := e.CheckAndUnlockNow()
	if !called {
		t.Fatal("expected statsFn to be consulted")
	}
	if len(newly) != 1 || newly[0] != "first_steps" {
		t.Fatalf("expected first_steps, got %v", newly)
	}
}

func TestGetProgressSharesConditionMetric(t *testing.T) {
	e, _ := newEngine(Builtin(), nil)

	p := e.GetProgress("warming_up", Stats{TotalSessions: 4})
	if p.Unlocked || p.Progress != 4 || p.Target != 10 {
		t.Fatalf("unexpected progress %#v", p)
	}

	e.CheckAndUnlock(nil, Stats{TotalSessions: 10})
	p = e.GetProgress("warming_up", Stats{TotalSessions: 10})
	if !p.Unlocked || p.Progress != p.Target {
		t.Fatalf("unexpected unlocked progress %#v", p)
	}

	// Entry-shaped achievements report 0-or-done.
	p = e.GetProgress("sharpshooter", Stats{})
	if p.Unlocked || p.Progress != 0 || p.Target != 1 {
		t.Fatalf("unexpected entry-shaped progress %#v", p)
	}

	// Progress never exceeds the target.
	p = e.GetProgress("streak_3", Stats{Streak: 9})
	if p.Progress != 3 || p.Target != 3 {
		t.Fatalf("expected clamped progress, got %#v", p)
	}

	if p := e.GetProgress("unknown", Stats{}); p.Target != 0 {
		t.Fatalf("unknown id must report zero progress, got %#v", p)
	}
}

func TestRestoreReplacesUnlockedSet(t *testing.T) {
	e, _ := newEngine(Builtin(), nil)
	e.CheckAndUnlock(nil, Stats{TotalSessions: 100, Streak: 30})
	if len(e.UnlockedIDs()) < 4 {
		t.Fatalf("setup: expected several unlocked, got %v", e.UnlockedIDs())
	}

	e.Restore([]string{"first_steps", "streak_3"})
	got := e.UnlockedIDs()
	if len(got) != 2 || got[0] != "first_steps" || got[1] != "streak_3" {
		t.Fatalf("expected replaced set, got %v", got)
	}
}
