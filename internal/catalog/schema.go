package catalog

import (
	"fmt"
	"regexp"
)

const (
	CatalogKind            = "catalog"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,63}$`)

// Catalog is the static exercise registry: which exercises exist, their
// ordered difficulty tiers, and the unlock rules gating the harder tiers.
// The progress engine reads it and never writes it.
type Catalog struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	Name          string     `yaml:"name"`
	Exercises     []Exercise `yaml:"exercises"`
}

type Exercise struct {
	ID            string       `yaml:"exercise_id"`
	Name          string       `yaml:"name"`
	Category      string       `yaml:"category"`
	DescriptionMD string       `yaml:"description_md"`
	Difficulties  []string     `yaml:"difficulties"`
	Visible       *bool        `yaml:"visible"`
	Unlocks       []UnlockRule `yaml:"unlocks"`
}

// UnlockRule gates one difficulty tier behind performance on an earlier
// prerequisite tier. A tier with no rule is unconditionally available.
type UnlockRule struct {
	Difficulty   string `yaml:"difficulty"`
	Prerequisite string `yaml:"prerequisite"`
	MinSessions  int    `yaml:"min_sessions"`
	MinScore     int    `yaml:"min_score"`
}

func (c *Catalog) Validate() error {
	if c.Kind != CatalogKind {
		return fmt.Errorf("kind must be %q, got %q", CatalogKind, c.Kind)
	}
	if c.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (supported: %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	if len(c.Exercises) == 0 {
		return fmt.Errorf("catalog has no exercises")
	}
	seen := map[string]bool{}
	for i := range c.Exercises {
		ex := &c.Exercises[i]
		if err := ex.validate(); err != nil {
			return fmt.Errorf("exercise %q: %w", ex.ID, err)
		}
		if seen[ex.ID] {
			return fmt.Errorf("duplicate exercise_id %q", ex.ID)
		}
		seen[ex.ID] = true
	}
	return nil
}

func (ex *Exercise) validate() error {
	if !idPattern.MatchString(ex.ID) {
		return fmt.Errorf("exercise_id must match %s", idPattern.String())
	}
	if len(ex.Difficulties) < 2 {
		return fmt.Errorf("needs at least 2 difficulty tiers, got %d", len(ex.Difficulties))
	}
	tiers := map[string]int{}
	for i, tier := range ex.Difficulties {
		if !idPattern.MatchString(tier) {
			return fmt.Errorf("difficulty %q must match %s", tier, idPattern.String())
		}
		if _, dup := tiers[tier]; dup {
			return fmt.Errorf("duplicate difficulty %q", tier)
		}
		tiers[tier] = i
	}
	ruled := map[string]bool{}
	for _, rule := range ex.Unlocks {
		ti, ok := tiers[rule.Difficulty]
		if !ok {
			return fmt.Errorf("unlock rule targets unknown difficulty %q", rule.Difficulty)
		}
		pi, ok := tiers[rule.Prerequisite]
		if !ok {
			return fmt.Errorf("unlock rule for %q has unknown prerequisite %q", rule.Difficulty, rule.Prerequisite)
		}
		if pi >= ti {
			return fmt.Errorf("unlock rule for %q: prerequisite %q is not an earlier tier", rule.Difficulty, rule.Prerequisite)
		}
		if ruled[rule.Difficulty] {
			return fmt.Errorf("duplicate unlock rule for difficulty %q", rule.Difficulty)
		}
		ruled[rule.Difficulty] = true
		if rule.MinSessions < 0 || rule.MinScore < 0 {
			return fmt.Errorf("unlock rule for %q: thresholds must be non-negative", rule.Difficulty)
		}
	}
	return nil
}

// Exercise looks up an exercise by id.
func (c *Catalog) Exercise(id string) (Exercise, bool) {
	for _, ex := range c.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

// RuleFor returns the unlock rule gating (exerciseID, difficulty), if any.
func (c *Catalog) RuleFor(exerciseID, difficulty string) (UnlockRule, bool) {
	ex, ok := c.Exercise(exerciseID)
	if !ok {
		return UnlockRule{}, false
	}
	for _, rule := range ex.Unlocks {
		if rule.Difficulty == difficulty {
			return rule, true
		}
	}
	return UnlockRule{}, false
}

// TierIndex returns the ordinal position of a difficulty within the
// exercise's easiest-to-hardest ordering, or -1 when unknown.
func (ex Exercise) TierIndex(difficulty string) int {
	for i, tier := range ex.Difficulties {
		if tier == difficulty {
			return i
		}
	}
	return -1
}

// FirstTier is the easiest difficulty of the exercise.
func (ex Exercise) FirstTier() string {
	return ex.Difficulties[0]
}

// IsVisible defaults to true when the catalog omits the flag.
func (ex Exercise) IsVisible() bool {
	return ex.Visible == nil || *ex.Visible
}
