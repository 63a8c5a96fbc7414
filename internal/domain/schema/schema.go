// Package schema defines the static prompt schemas, one per intent category,
// and the template engine that renders their sections.
package schema

import "github.com/voxpilot/voxpilot/internal/domain/intent"

// Section is one named, ordered part of a prompt schema.
type Section struct {
	Name     string
	Title    string
	Template Template
	Required bool
}

// Schema is a named, ordered set of markdown section templates associated
// with one intent category. Schemas are defined once at process start and
// read-only afterwards.
type Schema struct {
	ID                string
	Name              string
	Description       string
	Sections          []Section
	SafetyConstraints []string
}

var byIntent = map[intent.Type]Schema{
	intent.TypeBugFix:         bugFixSchema,
	intent.TypeAddFeature:     addFeatureSchema,
	intent.TypeExplainCode:    explainCodeSchema,
	intent.TypeSpecGeneration: specGenerationSchema,
}

// Select resolves an intent to its schema. Unknown intents fall back to the
// add_feature schema.
func Select(t intent.Type) Schema {
	if s, ok := byIntent[t]; ok {
		return s
	}
	return addFeatureSchema
}

// All returns every defined schema.
func All() []Schema {
	out := make([]Schema, 0, len(byIntent))
	for _, t := range []intent.Type{
		intent.TypeBugFix, intent.TypeAddFeature,
		intent.TypeExplainCode, intent.TypeSpecGeneration,
	} {
		out = append(out, byIntent[t])
	}
	return out
}

// ByID finds a schema by its id, reporting whether it exists.
func ByID(id string) (Schema, bool) {
	for _, s := range byIntent {
		if s.ID == id {
			return s, true
		}
	}
	return Schema{}, false
}
