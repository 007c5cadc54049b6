// Package streak maintains the daily engagement streak. The state machine
// lives entirely in two stored values, streak count and last active day, and
// this engine is their only writer.
package streak

import (
	"time"

	"kinetrack/internal/dates"
	"kinetrack/internal/storage"
)

const (
	keyStreak     = "streak"
	keyLastActive = "last_active_day"
)

// Amnesty forgives gaps of up to this many days across a weekend: a Monday
// session after a Friday, Saturday or Sunday session keeps the streak alive.
// Hardcoded to the Monday-start work week; see DESIGN.md.
const maxAmnestyGap = 3

type Engine struct {
	kv *storage.KV
}

func New(kv *storage.KV) *Engine {
	return &Engine{kv: kv}
}

// Current returns the stored streak, zero when never initialized.
func (e *Engine) Current() int {
	return e.kv.GetInt(keyStreak, 0)
}

// LastActiveDay returns the stored canonical day, empty when never set.
func (e *Engine) LastActiveDay() string {
	return e.kv.GetString(keyLastActive, "")
}

// Update advances the streak for activity on today (a canonical day) and
// returns the resulting streak. Safe to call any number of times per day:
// repeat same-day calls change nothing, and a day earlier than the recorded
// last active day is ignored outright so clock skew cannot damage the
// record. An unparseable today fails loudly rather than guess.
func (e *Engine) Update(today string) (int, error) {
	if _, err := dates.ParseDay(today); err != nil {
		return 0, err
	}

	last := e.LastActiveDay()
	if last == "" {
		return e.start(today), nil
	}
	diff, err := dates.DayDiff(last, today)
	if err != nil {
		// Stored day is corrupt; treat it as absent.
		return e.start(today), nil
	}

	streak := e.Current()
	switch {
	case diff < 0:
		// Out-of-order call; state unchanged.
		return streak, nil
	case diff == 0:
		return streak, nil
	case diff == 1:
		return e.advance(streak+1, today), nil
	case diff <= maxAmnestyGap:
		if weekendAmnesty(last, today) {
			return e.advance(streak+1, today), nil
		}
		return e.start(today), nil
	default:
		return e.start(today), nil
	}
}

// Restore overwrites engagement state wholesale (import path). The pairing
// invariant holds: without a valid last active day there is no streak, and a
// stored streak is always at least 1.
func (e *Engine) Restore(streakCount int, lastActiveDay string) {
	if streakCount < 1 || lastActiveDay == "" {
		e.kv.Remove(keyStreak)
		e.kv.Remove(keyLastActive)
		return
	}
	if _, err := dates.ParseDay(lastActiveDay); err != nil {
		e.kv.Remove(keyStreak)
		e.kv.Remove(keyLastActive)
		return
	}
	e.kv.Set(keyStreak, streakCount)
	e.kv.Set(keyLastActive, lastActiveDay)
}

func (e *Engine) start(today string) int {
	e.kv.Set(keyStreak, 1)
	e.kv.Set(keyLastActive, today)
	return 1
}

func (e *Engine) advance(streak int, today string) int {
	e.kv.Set(keyStreak, streak)
	e.kv.Set(keyLastActive, today)
	return streak
}

// weekendAmnesty reports whether the gap from last to today is the forgiven
// weekend transition: today is the Monday opening a work week and last fell
// on the Friday, Saturday or Sunday before it.
func weekendAmnesty(last, today string) bool {
	tw, err := dates.Weekday(today)
	if err != nil || tw != time.Monday {
		return false
	}
	lw, err := dates.Weekday(last)
	if err != nil {
		return false
	}
	return lw == time.Friday || lw == time.Saturday || lw == time.Sunday
}
