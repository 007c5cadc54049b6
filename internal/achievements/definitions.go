package achievements

// counter builds a threshold achievement whose condition and progress share
// one metric.
func counter(id, name, description string, metric func(Stats) int, target int) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Description: description,
		Condition: func(c Context) bool {
			return metric(c.Stats) >= target
		},
		Metric: func(s Stats) (int, int) {
			return metric(s), target
		},
	}
}

func totalSessions(s Stats) int { return s.TotalSessions }
func streakDays(s Stats) int    { return s.Streak }
func level(s Stats) int         { return s.Level }

// Builtin is the compiled-in achievement registry. Both condition shapes
// are represented: aggregate thresholds and latest-entry predicates.
func Builtin() []Definition {
	return []Definition{
		counter("first_steps", "First Steps", "Complete your first session.", totalSessions, 1),
		counter("warming_up", "Warming Up", "Complete 10 sessions.", totalSessions, 10),
		counter("dedicated", "Dedicated", "Complete 50 sessions.", totalSessions, 50),
		counter("century", "Century Club", "Complete 100 sessions.", totalSessions, 100),
		counter("streak_3", "Three in a Row", "Practice 3 days in a row.", streakDays, 3),
		counter("streak_7", "Full Week", "Practice 7 days in a row.", streakDays, 7),
		counter("streak_30", "Habit Formed", "Practice 30 days in a row.", streakDays, 30),
		counter("level_5", "Halfway Up", "Reach level 5.", level, 5),
		counter("level_10", "Top of the Mountain", "Reach the highest level.", level, 10),
		{
			ID:          "record_breaker",
			Name:        "Record Breaker",
			Description: "Set a new personal best.",
			Condition: func(c Context) bool {
				return c.Stats.NewBest
			},
		},
		{
			ID:          "sharpshooter",
			Name:        "Sharpshooter",
			Description: "Finish a hard session with at least 95% accuracy.",
			Condition: func(c Context) bool {
				return c.Entry != nil &&
					c.Entry.Difficulty == "hard" &&
					c.Entry.ExtraNumber("accuracy") >= 0.95
			},
		},
		{
			ID:          "combo_master",
			Name:        "Combo Master",
			Description: "Chain a combo of 10 or more in one session.",
			Condition: func(c Context) bool {
				return c.Entry != nil && c.Entry.ExtraNumber("comboStreak") >= 10
			},
		},
		{
			ID:          "flawless",
			Name:        "Flawless",
			Description: "Finish a session without a single mistake.",
			Condition: func(c Context) bool {
				return c.Entry != nil && c.Entry.ExtraBool("perfect")
			},
		},
	}
}
