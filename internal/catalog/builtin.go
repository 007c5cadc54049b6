package catalog

// The builtin catalog ships compiled in so the engine works with no files on
// disk. A catalog file supplied via config fully replaces it.
const builtinYAML = `
kind: catalog
schema_version: 1
name: builtin-core
exercises:
  - exercise_id: bubble
    name: Bubble Pop
    category: fine_motor
    description_md: Pop the bubbles as they drift across the screen.
    difficulties: [easy, medium, hard]
    unlocks:
      - difficulty: medium
        prerequisite: easy
        min_sessions: 5
        min_score: 100
      - difficulty: hard
        prerequisite: medium
        min_sessions: 5
        min_score: 200
  - exercise_id: trace
    name: Path Trace
    category: coordination
    description_md: Trace the highlighted path without leaving the line.
    difficulties: [easy, medium, hard, expert]
    unlocks:
      - difficulty: medium
        prerequisite: easy
        min_sessions: 3
        min_score: 80
      - difficulty: hard
        prerequisite: medium
        min_sessions: 5
        min_score: 150
      - difficulty: expert
        prerequisite: hard
        min_sessions: 8
        min_score: 250
  - exercise_id: grip
    name: Grip and Release
    category: gross_motor
    description_md: Squeeze and release in rhythm with the prompt.
    difficulties: [easy, medium, hard]
    unlocks:
      - difficulty: medium
        prerequisite: easy
        min_sessions: 4
        min_score: 90
      - difficulty: hard
        prerequisite: medium
        min_sessions: 6
        min_score: 180
  - exercise_id: recall
    name: Sequence Recall
    category: memory
    description_md: Repeat the sequence of tiles in order.
    difficulties: [easy, medium, hard]
    unlocks:
      - difficulty: medium
        prerequisite: easy
        min_sessions: 3
        min_score: 60
      - difficulty: hard
        prerequisite: medium
        min_sessions: 5
        min_score: 120
`

// Builtin returns the compiled-in catalog. It panics only if the embedded
// document is itself invalid, which the package tests pin down.
func Builtin() Catalog {
	c, err := Parse([]byte(builtinYAML))
	if err != nil {
		panic(err)
	}
	return c
}
