package streak

import (
	"testing"

	"kinetrack/internal/storage"
)

// Calendar anchors used below: 2026-01-02 is a Friday, 2026-01-03 a
// Saturday, 2026-01-05 the following Monday, 2026-01-06 a Tuesday.

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(storage.NewKV(storage.NewMemory(), "t_v1"))
}

func mustUpdate(t *testing.T, e *Engine, day string) int {
	t.Helper()
	got, err := e.Update(day)
	if err != nil {
		t.Fatalf("Update(%s): %v", day, err)
	}
	return got
}

func TestFirstUpdateStartsStreak(t *testing.T) {
	e := newEngine(t)
	if got := mustUpdate(t, e, "2026-01-05"); got != 1 {
		t.Fatalf("expected streak 1, got %d", got)
	}
	if e.LastActiveDay() != "2026-01-05" {
		t.Fatalf("unexpected last active day %s", e.LastActiveDay())
	}
}

func TestSameDayIsIdempotent(t *testing.T) {
	e := newEngine(t)
	mustUpdate(t, e, "2026-01-05")
	mustUpdate(t, e, "2026-01-06")
	first := mustUpdate(t, e, "2026-01-06")
	second := mustUpdate(t, e, "2026-01-06")
	if first != 2 || second != 2 {
		t.Fatalf("expected streak 2 on both same-day calls, got %d then %d", first, second)
	}
}

func TestConsecutiveDayIncrements(t *testing.T) {
	e := newEngine(t)
	mustUpdate(t, e, "2026-01-05")
	mustUpdate(t, e, "2026-01-06")
	if got := mustUpdate(t, e, "2026-01-07"); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
}

func TestEarlierDayIsIgnored(t *testing.T) {
	e := newEngine(t)
	mustUpdate(t, e, "2026-01-05")
	mustUpdate(t, e, "2026-01-06")
	if got := mustUpdate(t, e, "2026-01-04"); got != 2 {
		t.Fatalf("expected unchanged streak 2, got %d", got)
	}
	if e.LastActiveDay() != "2026-01-06" {
		t.Fatalf("expected last active day unchanged, got %s", e.LastActiveDay())
	}
}

func TestMondayAmnestyAfterFriday(t *testing.T) {
	e := newEngine(t)
	// Build a streak of 3 ending on the Friday.
	mustUpdate(t, e, "2025-12-31")
	mustUpdate(t, e, "2026-01-01")
	mustUpdate(t, e, "2026-01-02")
	if got := mustUpdate(t, e, "2026-01-05"); got != 4 {
		t.Fatalf("expected Monday amnesty to continue streak at 4, got %d", got)
	}
}

func TestMondayAmnestyAfterSaturday(t *testing.T) {
	e := newEngine(t)
	mustUpdate(t, e, "2026-01-02")
	mustUpdate(t, e, "2026-01-03")
	if got := mustUpdate(t, e, "2026-01-05"); got != 3 {
		t.Fatalf("expected streak 3 via Saturday-to-Monday amnesty, got %d", got)
	}
}

func TestMidweekGapResets(t *testing.T) {
	e := newEngine(t)
	mustUpdate(t, e, "2026-01-05")
	// Monday to Wednesday is a 2-day gap but Wednesday gets no amnesty.
	if got := mustUpdate(t, e, "2026-01-07"); got != 1 {
		t.Fatalf("expected reset to 1, got %d", got)
	}
}

func TestFourDayGapAlwaysResets(t *testing.T) {
	e := newEngine(t)
	// Streak of 5 ending on the Tuesday.
	for _, day := range []string{"2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05", "2026-01-06"} {
		mustUpdate(t, e, day)
	}
	if got := e.Current(); got != 5 {
		t.Fatalf("setup: expected streak 5, got %d", got)
	}
	// Tuesday to Saturday is a 4-day gap; no weekday saves it.
	if got := mustUpdate(t, e, "2026-01-10"); got != 1 {
		t.Fatalf("expected reset to 1, got %d", got)
	}
}

func TestInvalidDayFailsLoudly(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Update("not-a-day"); err == nil {
		t.Fatal("expected error for invalid day")
	}
	if e.Current() != 0 {
		t.Fatal("failed update must not touch state")
	}
}

func TestCorruptStoredDayRestarts(t *testing.T) {
	kv := storage.NewKV(storage.NewMemory(), "t_v1")
	kv.Set("streak", 7)
	kv.Set("last_active_day", "garbage")
	e := New(kv)
	if got := mustUpdate(t, e, "2026-01-05"); got != 1 {
		t.Fatalf("expected restart at 1, got %d", got)
	}
}
