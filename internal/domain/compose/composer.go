// Package compose renders the selected schema against the request context
// and assembles the final markdown prompt.
package compose

import (
	"strings"
	"time"

	"github.com/voxpilot/voxpilot/internal/domain/intent"
	"github.com/voxpilot/voxpilot/internal/domain/normalize"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
	"github.com/voxpilot/voxpilot/internal/domain/schema"
)

// sectionSeparator joins rendered sections in the final markdown.
const sectionSeparator = "\n\n---\n\n"

// Metadata records how a prompt was composed.
type Metadata struct {
	Intent     intent.Type `json:"intent"`
	SchemaID   string      `json:"schemaId"`
	ComposedAt time.Time   `json:"composedAt"`
}

// ComposedPrompt is the fully rendered markdown document for one request.
// Sections maps section name to its rendered body; sections whose render
// condition was unmet are absent from both the map and the markdown.
type ComposedPrompt struct {
	Markdown string            `json:"markdown"`
	Sections map[string]string `json:"sections"`
	Metadata Metadata          `json:"metadata"`
}

// Compose builds the template context from the normalization and
// classification results plus the IDE context, renders each schema section
// in declared order, and joins them with the markdown separator. The "code"
// section is skipped entirely (heading included) when no code is selected.
func Compose(norm normalize.Result, cls intent.Classification, ide prompt.IDEContext, now time.Time) ComposedPrompt {
	sel := schema.Select(cls.Type)

	goal := norm.PossibleGoal
	if goal == "" {
		goal = norm.CleanText
	}

	ctx := schema.Context{
		Goal:          goal,
		ActiveFile:    ide.ActiveFile,
		SelectedCode:  ide.SelectedCode,
		CursorLine:    ide.CursorLine,
		HasCursorLine: ide.HasCursorLine,
		IDEType:       string(ide.IDEType),
		Tone:          string(norm.Tone),
	}

	rendered := make([]string, 0, len(sel.Sections))
	sections := make(map[string]string, len(sel.Sections))

	for _, s := range sel.Sections {
		if s.Name == "code" && ide.SelectedCode == "" {
			continue
		}
		body := s.Template.Render(ctx)
		rendered = append(rendered, s.Title+"\n\n"+body)
		sections[s.Name] = body
	}

	return ComposedPrompt{
		Markdown: strings.Join(rendered, sectionSeparator),
		Sections: sections,
		Metadata: Metadata{
			Intent:     cls.Type,
			SchemaID:   sel.ID,
			ComposedAt: now,
		},
	}
}
