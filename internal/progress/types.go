package progress

// Entry is one completed session in the bounded per-exercise history. Extras
// carries exercise-specific metrics (accuracy, perfect moves, combo length)
// the engine does not interpret; reserved core fields always win over extras
// on key collision.
type Entry struct {
	ID          string         `json:"id"`
	ExerciseID  string         `json:"exerciseId"`
	Difficulty  string         `json:"difficulty"`
	Score       int            `json:"score"`
	TimestampMS int64          `json:"timestampMs"`
	Day         string         `json:"isoDate"`
	Extras      map[string]any `json:"extras,omitempty"`
}

// ExtraNumber reads a numeric extra metric, 0 when absent or non-numeric.
func (e Entry) ExtraNumber(key string) float64 {
	switch v := e.Extras[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// ExtraBool reads a boolean extra metric, false when absent or non-boolean.
func (e Entry) ExtraBool(key string) bool {
	v, _ := e.Extras[key].(bool)
	return v
}

// RecordResult is returned from Record and consumed by the UI layer.
type RecordResult struct {
	IsNewBest     bool
	TotalSessions int
	Streak        int
	Entry         Entry
}
