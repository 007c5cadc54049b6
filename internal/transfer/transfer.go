// Package transfer serializes the whole progress state into one versioned
// document and restores it. Import follows a replace policy: every field the
// document carries supersedes the stored value, nothing is merged.
package transfer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"kinetrack/internal/achievements"
	"kinetrack/internal/catalog"
	"kinetrack/internal/gamify"
	"kinetrack/internal/progress"
	"kinetrack/internal/storage"
	"kinetrack/internal/streak"
)

// DocumentVersion tags the export schema. Import rejects any other version
// outright; silent coercion of an unknown schema is how long-term records
// get corrupted.
const DocumentVersion = 1

// Document is the at-rest export format. Unknown extra fields in an
// imported document are ignored.
type Document struct {
	Version      int                  `json:"version"`
	ExportedAt   string               `json:"exportedAt"`
	Stats        DocumentStats        `json:"stats"`
	Exercises    map[string]Aggregate `json:"exercises"`
	Achievements []string             `json:"achievements"`
}

type DocumentStats struct {
	Points         int    `json:"points"`
	Level          int    `json:"level"`
	Streak         int    `json:"streak"`
	LastActiveDate string `json:"lastActiveDate,omitempty"`
}

type Aggregate struct {
	Sessions int `json:"sessions"`
	Best     int `json:"best"`
}

// importDocument mirrors Document with a lenient best field: historical
// exports wrote best either as a number or as an object keyed by
// difficulty.
type importDocument struct {
	Version      int                        `json:"version"`
	Stats        DocumentStats              `json:"stats"`
	Exercises    map[string]importAggregate `json:"exercises"`
	Achievements []string                   `json:"achievements"`
}

type importAggregate struct {
	Sessions int             `json:"sessions"`
	Best     json.RawMessage `json:"best"`
}

// ImportResult is returned instead of an error: import is user-triggered
// and recoverable, so failures carry a displayable reason.
type ImportResult struct {
	Success bool
	Error   string
}

type Engine struct {
	kv     *storage.KV
	cat    catalog.Catalog
	ledger *progress.Ledger
	streak *streak.Engine
	points *gamify.Ledger
	ach    *achievements.Engine

	// Now stamps exports; tests pin it.
	Now func() time.Time
}

func New(kv *storage.KV, cat catalog.Catalog, ledger *progress.Ledger, st *streak.Engine, points *gamify.Ledger, ach *achievements.Engine) *Engine {
	return &Engine{
		kv:     kv,
		cat:    cat,
		ledger: ledger,
		streak: st,
		points: points,
		ach:    ach,
		Now:    time.Now,
	}
}

// ExportState snapshots everything worth keeping into one document.
// Exercises with no recorded data are omitted to keep the document small.
func (e *Engine) ExportState() Document {
	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: e.Now().UTC().Format(time.RFC3339),
		Stats: DocumentStats{
			Points:         e.points.TotalPoints(),
			Level:          e.points.Level(),
			Streak:         e.streak.Current(),
			LastActiveDate: e.streak.LastActiveDay(),
		},
		Exercises:    map[string]Aggregate{},
		Achievements: e.ach.UnlockedIDs(),
	}
	for _, ex := range e.cat.Exercises {
		sessions := e.ledger.GetSessionCount(ex.ID)
		best := e.ledger.GetPersonalBest(ex.ID)
		if sessions > 0 || best > 0 {
			doc.Exercises[ex.ID] = Aggregate{Sessions: sessions, Best: best}
		}
	}
	return doc
}

// ImportState validates and applies a document. Nothing is written until
// validation has fully passed, so a rejected document leaves storage
// untouched. Never panics out to the caller.
func (e *Engine) ImportState(data []byte) (result ImportResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ImportResult{Error: fmt.Sprintf("import failed: %v", r)}
		}
	}()

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return ImportResult{Error: "import document is not an object"}
	}
	rawVersion, ok := probe["version"]
	if !ok {
		return ImportResult{Error: "import document is missing the version field"}
	}
	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return ImportResult{Error: "import document has a malformed version field"}
	}
	if version != DocumentVersion {
		return ImportResult{Error: fmt.Sprintf("incompatible version %d (expected %d)", version, DocumentVersion)}
	}

	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{Error: fmt.Sprintf("malformed import document: %v", err)}
	}

	// Wipe the namespace first so anything the document does not carry
	// (omitted exercises, tier counters, histories, unlock flags) reads back
	// empty, exactly as after the export it came from plus a reset.
	e.kv.ClearAll()

	e.points.RestorePoints(doc.Stats.Points)
	e.streak.Restore(doc.Stats.Streak, doc.Stats.LastActiveDate)

	total := 0
	for id, agg := range doc.Exercises {
		e.ledger.RestoreAggregate(id, agg.Sessions, normalizeBest(agg.Best))
		total += agg.Sessions
	}
	e.ledger.RestoreTotalSessions(total)
	e.ach.Restore(doc.Achievements)

	return ImportResult{Success: true}
}

// normalizeBest accepts the historical shapes of the best field: a plain
// number, a numeric string, or an object keyed by difficulty (collapsed to
// the max across its values). Anything else counts as zero.
func normalizeBest(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return clampNonNegative(int(n))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return clampNonNegative(int(parsed))
		}
		return 0
	}
	var byTier map[string]float64
	if err := json.Unmarshal(raw, &byTier); err == nil {
		best := 0
		for _, v := range byTier {
			if int(v) > best {
				best = int(v)
			}
		}
		return best
	}
	return 0
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ResetAll wipes every namespaced key. Nothing is re-seeded; first-tier
// unlock seeding runs again the next time an exercise is opened.
func (e *Engine) ResetAll() {
	e.kv.ClearAll()
}
