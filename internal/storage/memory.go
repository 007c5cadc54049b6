package storage

import "sort"

// MemoryBackend keeps everything in a map. Used by tests and as a fallback
// when the on-disk store cannot be opened.
type MemoryBackend struct {
	data map[string]string
}

func NewMemory() *MemoryBackend {
	return &MemoryBackend{data: map[string]string{}}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Close() error { return nil }
