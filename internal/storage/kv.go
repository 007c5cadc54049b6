package storage

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultNamespace is the key prefix for the current schema generation.
// Bumping it orphans (but does not delete) previous-generation keys.
const DefaultNamespace = "kinetrack_v1"

// KV is a namespaced wrapper over a Backend. Every value is JSON-encoded on
// write and decoded on read, so numbers, booleans, objects and arrays
// round-trip with their types intact.
//
// All failure modes of the underlying store (unavailable, malformed payload,
// wrong shape, write quota) degrade to the caller-supplied default; nothing
// here ever returns an error to callers. Progress tracking must keep working
// with zeroed state rather than surface storage faults to the user.
type KV struct {
	backend Backend
	prefix  string
}

func NewKV(backend Backend, namespace string) *KV {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &KV{backend: backend, prefix: namespace + ":"}
}

// Get decodes the stored value for key into out, which must be a pointer.
// Returns false (leaving out untouched) when the key is absent, the backend
// fails, or the payload does not decode into out's shape.
func (kv *KV) Get(key string, out any) bool {
	raw, ok, err := kv.backend.Get(kv.prefix + key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

// GetInt reads key and coerces whatever is stored to an integer via numeric
// parsing, so a legacy "42" and a native 42 read back the same. Returns
// fallback when the value is absent or not a finite number.
func (kv *KV) GetInt(key string, fallback int) int {
	raw, ok, err := kv.backend.Get(kv.prefix + key)
	if err != nil || !ok {
		return fallback
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return fallback
	}
	var f float64
	switch v := decoded.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fallback
		}
		f = parsed
	default:
		return fallback
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(f)
}

func (kv *KV) GetString(key, fallback string) string {
	var s string
	if !kv.Get(key, &s) {
		return fallback
	}
	return s
}

func (kv *KV) GetBool(key string, fallback bool) bool {
	var b bool
	if !kv.Get(key, &b) {
		return fallback
	}
	return b
}

// Set encodes v as JSON and writes it. Write failures (quota, read-only
// store) are swallowed; the next read falls back to defaults.
func (kv *KV) Set(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = kv.backend.Set(kv.prefix+key, string(raw))
}

func (kv *KV) Has(key string) bool {
	_, ok, err := kv.backend.Get(kv.prefix + key)
	return err == nil && ok
}

func (kv *KV) Remove(key string) {
	_ = kv.backend.Remove(kv.prefix + key)
}

// ClearAll removes every key under this namespace and nothing else. The key
// list is snapshotted first so removal during enumeration cannot skip
// entries; individual remove failures are ignored.
func (kv *KV) ClearAll() {
	keys, err := kv.backend.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if strings.HasPrefix(k, kv.prefix) {
			_ = kv.backend.Remove(k)
		}
	}
}

// Keys returns the namespaced suffixes currently present, for export-size
// diagnostics and tests.
func (kv *KV) Keys() []string {
	keys, err := kv.backend.Keys()
	if err != nil {
		return nil
	}
	out := []string{}
	for _, k := range keys {
		if strings.HasPrefix(k, kv.prefix) {
			out = append(out, strings.TrimPrefix(k, kv.prefix))
		}
	}
	return out
}
