package dispatch

import (
	"strings"
	"testing"

	"github.com/voxpilot/voxpilot/internal/domain/prompt"
)

func TestDispatchToAvailableProvider(t *testing.T) {
	got := Dispatch("cursor", "## Goal\n\nFix it", Metadata{})

	if !got.Success {
		t.Fatalf("Dispatch failed: %s", got.Error)
	}
	if got.Method != MethodClipboard {
		t.Fatalf("Method = %q, want clipboard", got.Method)
	}
	if !strings.Contains(got.Instructions, "cursor") {
		t.Fatalf("Instructions = %q, should mention the target", got.Instructions)
	}
}

func TestDispatchUnknownTarget(t *testing.T) {
	got := Dispatch("emacs", "prompt", Metadata{})

	if got.Success {
		t.Fatal("unknown target should fail")
	}
	if !strings.Contains(got.Error, "emacs") {
		t.Fatalf("Error = %q, should name the target", got.Error)
	}
}

func TestDispatchUnavailableProvider(t *testing.T) {
	got := Dispatch("claude", "prompt", Metadata{})

	if got.Success {
		t.Fatal("unavailable provider should fail")
	}
	if got.Method != MethodAPI {
		t.Fatalf("Method = %q, want api", got.Method)
	}
	if !strings.Contains(got.Error, "not yet available") {
		t.Fatalf("Error = %q", got.Error)
	}
}

func TestProvidersTable(t *testing.T) {
	all := Providers()
	if len(all) != 5 {
		t.Fatalf("Providers() = %d entries, want 5", len(all))
	}

	available := AvailableProviders()
	for _, p := range available {
		if !p.Available {
			t.Errorf("AvailableProviders returned unavailable %q", p.Name)
		}
		if p.Method == MethodClipboard && p.Command == "" {
			t.Errorf("clipboard provider %q missing its IDE command", p.Name)
		}
	}
	if len(available) != 3 {
		t.Fatalf("AvailableProviders() = %d entries, want 3", len(available))
	}
}

func TestProvidersReturnsCopy(t *testing.T) {
	first := Providers()
	first[0].Name = "mutated"
	if Providers()[0].Name == "mutated" {
		t.Fatal("Providers must not expose the internal table")
	}
}

func TestIsValidTarget(t *testing.T) {
	for _, name := range []string{"cursor", "copilot", "claude", "gpt", "windsurf"} {
		if !IsValidTarget(name) {
			t.Errorf("IsValidTarget(%q) = false", name)
		}
	}
	if IsValidTarget("vim") {
		t.Error("IsValidTarget(vim) = true")
	}
}

func TestSuggestTarget(t *testing.T) {
	tests := []struct {
		ide  prompt.IDEType
		want string
	}{
		{prompt.IDECursor, "cursor"},
		{prompt.IDEWindsurf, "windsurf"},
		{prompt.IDEVSCode, "copilot"},
		{prompt.IDEOther, "copilot"},
	}
	for _, tt := range tests {
		if got := SuggestTarget(tt.ide); got != tt.want {
			t.Errorf("SuggestTarget(%q) = %q, want %q", tt.ide, got, tt.want)
		}
	}
}
