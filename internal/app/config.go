package app

import (
	"errors"
	"os"
	"path/filepath"
)

// Config controls where the engine keeps its state and which catalog it
// serves. All fields are optional; zero values resolve to sane defaults.
type Config struct {
	// DataDir holds the progress database. Defaults to
	// ~/.local/share/kinetrack.
	DataDir string `env:"KINETRACK_DATA_DIR"`

	// CatalogPath points at a YAML exercise catalog. Empty means the
	// builtin catalog.
	CatalogPath string `env:"KINETRACK_CATALOG"`

	// JournalPath appends progress events as JSON lines. Empty disables
	// the journal.
	JournalPath string `env:"KINETRACK_JOURNAL"`

	// Namespace prefixes every stored key. Defaults to the current
	// schema-version namespace.
	Namespace string `env:"KINETRACK_NAMESPACE"`
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "kinetrack")
	}
	return nil
}

// DatabasePath is where the SQLite key-value store lives.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "progress.db")
}
