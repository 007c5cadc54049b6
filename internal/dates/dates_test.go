package dates

import (
	"errors"
	"testing"
	"time"
)

func TestCanonicalDayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*60*60)
	// 23:30 local on Jan 5 is already Jan 5 10:30 UTC.
	local := time.Date(2026, 1, 5, 23, 30, 0, 0, loc)
	if got := CanonicalDay(local); got != "2026-01-05" {
		t.Fatalf("expected 2026-01-05, got %s", got)
	}
	// 05:00 local on Jan 6 is still Jan 5 in UTC.
	local = time.Date(2026, 1, 6, 5, 0, 0, 0, loc)
	if got := CanonicalDay(local); got != "2026-01-05" {
		t.Fatalf("expected 2026-01-05, got %s", got)
	}
}

func TestCanonicalDayFrom(t *testing.T) {
	if got, err := CanonicalDayFrom("2026-01-05"); err != nil || got != "2026-01-05" {
		t.Fatalf("day passthrough: got %s err=%v", got, err)
	}
	if got, err := CanonicalDayFrom("2026-01-05T23:59:00-04:00"); err != nil || got != "2026-01-06" {
		t.Fatalf("rfc3339 normalization: got %s err=%v", got, err)
	}
	if _, err := CanonicalDayFrom("yesterday"); err == nil {
		t.Fatal("expected error for unparseable input")
	}
	var invalid *InvalidDateError
	_, err := CanonicalDayFrom("2026-13-40")
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidDateError, got %v", err)
	}
}

func TestCanonicalDayFromMillis(t *testing.T) {
	ms := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC).UnixMilli()
	if got := CanonicalDayFromMillis(ms); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestDayDiff(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2026-01-05", "2026-01-05", 0},
		{"2026-01-05", "2026-01-06", 1},
		{"2026-01-06", "2026-01-05", -1},
		{"2026-01-02", "2026-01-05", 3},
		{"2025-12-31", "2026-01-01", 1},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2026-01-01", "2026-12-31", 364},
	}
	for _, c := range cases {
		got, err := DayDiff(c.a, c.b)
		if err != nil {
			t.Fatalf("DayDiff(%s,%s): %v", c.a, c.b, err)
		}
		if got != c.want {
			t.Fatalf("DayDiff(%s,%s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
	if _, err := DayDiff("garbage", "2026-01-05"); err == nil {
		t.Fatal("expected error for invalid first argument")
	}
	if _, err := DayDiff("2026-01-05", "05/01/2026"); err == nil {
		t.Fatal("expected error for invalid second argument")
	}
}

func TestAddDays(t *testing.T) {
	if got, err := AddDays("2026-01-30", 3); err != nil || got != "2026-02-02" {
		t.Fatalf("got %s err=%v", got, err)
	}
	if got, err := AddDays("2026-01-05", -5); err != nil || got != "2025-12-31" {
		t.Fatalf("got %s err=%v", got, err)
	}
	if _, err := AddDays("not-a-day", 1); err == nil {
		t.Fatal("expected error")
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2026-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if wd != time.Monday {
		t.Fatalf("expected Monday, got %s", wd)
	}
}
