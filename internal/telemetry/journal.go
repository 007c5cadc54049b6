// Package telemetry writes an append-only JSON-lines journal of progress
// events (session recorded, level up, achievement unlocked) for external
// dashboards. The journal is best-effort: a nil or closed journal drops
// events silently.
package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type Journal struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewJournal appends to the file at path; an empty path yields a journal
// that discards everything.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		return &Journal{w: nopCloser{Writer: io.Discard}}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Journal{w: f}, nil
}

// Event writes one journal line. Fields never override the ts/event
// envelope.
func (j *Journal) Event(event string, fields map[string]any) {
	if j == nil || j.w == nil {
		return
	}
	line := map[string]any{}
	for k, v := range fields {
		line[k] = v
	}
	line["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	line["event"] = event
	b, _ := json.Marshal(line)
	j.mu.Lock()
	defer j.mu.Unlock()
	_, _ = j.w.Write(append(b, '\n'))
}

func (j *Journal) Close() error {
	if j == nil || j.w == nil {
		return nil
	}
	return j.w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
