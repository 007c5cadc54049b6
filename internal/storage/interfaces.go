package storage

// Backend is a flat string-keyed store. Implementations back the namespaced
// KV wrapper; callers never use a Backend directly.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
	Close() error
}
