package schema

import (
	"testing"

	"github.com/voxpilot/voxpilot/internal/domain/intent"
)

func TestSelectCoversEveryIntent(t *testing.T) {
	tests := []struct {
		intent intent.Type
		wantID string
	}{
		{intent.TypeBugFix, "bug_fix_v1"},
		{intent.TypeAddFeature, "add_feature_v1"},
		{intent.TypeExplainCode, "explain_code_v1"},
		{intent.TypeSpecGeneration, "spec_generation_v1"},
	}
	for _, tt := range tests {
		if got := Select(tt.intent); got.ID != tt.wantID {
			t.Errorf("Select(%q).ID = %q, want %q", tt.intent, got.ID, tt.wantID)
		}
	}
}

func TestSelectUnknownIntentFallsBack(t *testing.T) {
	got := Select(intent.Type("something_else"))
	if got.ID != "add_feature_v1" {
		t.Fatalf("fallback schema = %q, want add_feature_v1", got.ID)
	}
}

func TestSchemasAreWellFormed(t *testing.T) {
	for _, s := range All() {
		if s.ID == "" || s.Name == "" {
			t.Errorf("schema %+v missing ID or Name", s)
		}
		if len(s.Sections) == 0 {
			t.Errorf("schema %s has no sections", s.ID)
		}

		seen := make(map[string]bool)
		var hasCode bool
		for _, sec := range s.Sections {
			if sec.Name == "" || sec.Title == "" {
				t.Errorf("schema %s has a section missing name or title", s.ID)
			}
			if seen[sec.Name] {
				t.Errorf("schema %s has duplicate section %q", s.ID, sec.Name)
			}
			seen[sec.Name] = true
			if sec.Name == "code" {
				hasCode = true
				if sec.Required {
					t.Errorf("schema %s: code section must be optional", s.ID)
				}
			}
		}
		if !hasCode {
			t.Errorf("schema %s missing the optional code section", s.ID)
		}
		if len(s.SafetyConstraints) == 0 {
			t.Errorf("schema %s has no safety constraints", s.ID)
		}
	}
}

func TestByID(t *testing.T) {
	s, ok := ByID("bug_fix_v1")
	if !ok || s.Name != "Bug Fix" {
		t.Fatalf("ByID(bug_fix_v1) = %+v, %v", s, ok)
	}
	if _, ok := ByID("nope"); ok {
		t.Fatal("ByID(nope) should not exist")
	}
}
