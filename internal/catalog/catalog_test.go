package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
kind: catalog
schema_version: 1
name: test
exercises:
  - exercise_id: bubble
    name: Bubble Pop
    category: fine_motor
    difficulties: [easy, medium, hard]
    unlocks:
      - difficulty: medium
        prerequisite: easy
        min_sessions: 5
        min_score: 100
`

func TestParseValidCatalog(t *testing.T) {
	c, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	ex, ok := c.Exercise("bubble")
	if !ok {
		t.Fatal("expected bubble exercise")
	}
	if ex.FirstTier() != "easy" {
		t.Fatalf("expected first tier easy, got %s", ex.FirstTier())
	}
	if ex.TierIndex("hard") != 2 {
		t.Fatalf("expected hard at index 2, got %d", ex.TierIndex("hard"))
	}
	if ex.TierIndex("nightmare") != -1 {
		t.Fatal("expected unknown tier index -1")
	}
	if !ex.IsVisible() {
		t.Fatal("expected visibility to default to true")
	}
	rule, ok := c.RuleFor("bubble", "medium")
	if !ok || rule.MinSessions != 5 || rule.MinScore != 100 {
		t.Fatalf("unexpected rule %#v ok=%v", rule, ok)
	}
	if _, ok := c.RuleFor("bubble", "easy"); ok {
		t.Fatal("expected no rule for the first tier")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mangle  func(*Catalog)
		wantErr string
	}{
		{"wrong kind", func(c *Catalog) { c.Kind = "pack" }, "kind"},
		{"bad version", func(c *Catalog) { c.SchemaVersion = 2 }, "schema_version"},
		{"no exercises", func(c *Catalog) { c.Exercises = nil }, "no exercises"},
		{"bad id", func(c *Catalog) { c.Exercises[0].ID = "Bad ID!" }, "exercise_id"},
		{"one tier", func(c *Catalog) { c.Exercises[0].Difficulties = []string{"easy"} }, "at least 2"},
		{"dup tier", func(c *Catalog) {
			c.Exercises[0].Difficulties = []string{"easy", "easy"}
		}, "duplicate difficulty"},
		{"rule unknown tier", func(c *Catalog) {
			c.Exercises[0].Unlocks[0].Difficulty = "nightmare"
		}, "unknown difficulty"},
		{"rule unknown prereq", func(c *Catalog) {
			c.Exercises[0].Unlocks[0].Prerequisite = "nightmare"
		}, "unknown prerequisite"},
		{"prereq not earlier", func(c *Catalog) {
			c.Exercises[0].Unlocks[0].Prerequisite = "hard"
		}, "not an earlier tier"},
		{"negative threshold", func(c *Catalog) {
			c.Exercises[0].Unlocks[0].MinScore = -1
		}, "non-negative"},
		{"dup exercise", func(c *Catalog) {
			c.Exercises = append(c.Exercises, c.Exercises[0])
		}, "duplicate exercise_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Parse([]byte(validYAML))
			if err != nil {
				t.Fatal(err)
			}
			tc.mangle(&c)
			err = c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "test" {
		t.Fatalf("unexpected catalog name %q", c.Name)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	c := Builtin()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Exercise("bubble"); !ok {
		t.Fatal("builtin catalog must include bubble")
	}
	for _, ex := range c.Exercises {
		if _, ok := c.RuleFor(ex.ID, ex.FirstTier()); ok {
			t.Fatalf("exercise %s: first tier must not carry an unlock rule", ex.ID)
		}
	}
}
