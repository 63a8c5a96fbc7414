package schema

import (
	"strings"
	"testing"
)

func TestRenderVariables(t *testing.T) {
	tpl := MustParse("Fix the following issue: {{goal}} in `{{activeFile}}`")
	got := tpl.Render(Context{Goal: "login crash", ActiveFile: "auth.go"})
	want := "Fix the following issue: login crash in `auth.go`"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderUnsetVariableIsEmpty(t *testing.T) {
	tpl := MustParse("file: {{activeFile}}.")
	if got := tpl.Render(Context{}); got != "file: ." {
		t.Fatalf("Render = %q", got)
	}
}

func TestRenderConditional(t *testing.T) {
	tpl := MustParse("line{{#if cursorLine}} is {{cursorLine}}{{/if}} end")

	got := tpl.Render(Context{CursorLine: 42, HasCursorLine: true})
	if got != "line is 42 end" {
		t.Fatalf("set guard: Render = %q", got)
	}

	got = tpl.Render(Context{})
	if got != "line end" {
		t.Fatalf("unset guard: Render = %q", got)
	}
}

func TestRenderCursorLineZeroVsUnset(t *testing.T) {
	tpl := MustParse("{{#if cursorLine}}at {{cursorLine}}{{/if}}")

	// CursorLine 0 without HasCursorLine means "not supplied".
	if got := tpl.Render(Context{CursorLine: 0}); got != "" {
		t.Fatalf("unset cursor: Render = %q, want empty", got)
	}
	if got := tpl.Render(Context{CursorLine: 0, HasCursorLine: true}); got != "at 0" {
		t.Fatalf("explicit line 0: Render = %q", got)
	}
}

func TestRenderNeutralToneDoesNotSatisfyConditional(t *testing.T) {
	tpl := MustParse("{{#if tone}}User tone: {{tone}}{{/if}}")

	if got := tpl.Render(Context{Tone: "neutral"}); got != "" {
		t.Fatalf("neutral tone: Render = %q, want empty", got)
	}
	if got := tpl.Render(Context{Tone: "frustrated"}); got != "User tone: frustrated" {
		t.Fatalf("frustrated tone: Render = %q", got)
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	tpl := MustParse("a{{bogus}}b{{#if bogus}}never{{/if}}c")
	if got := tpl.Render(Context{Goal: "x"}); got != "abc" {
		t.Fatalf("Render = %q, want abc", got)
	}
}

func TestParseRejectsNestedConditional(t *testing.T) {
	_, err := Parse("{{#if goal}}outer {{#if tone}}inner{{/if}}{{/if}}")
	if err == nil {
		t.Fatal("expected error for nested conditional")
	}
}

func TestParseRejectsUnterminatedConditional(t *testing.T) {
	_, err := Parse("{{#if goal}}no close")
	if err == nil {
		t.Fatal("expected error for missing {{/if}}")
	}
	if !strings.Contains(err.Error(), "goal") {
		t.Fatalf("error should name the guard, got %v", err)
	}
}

func TestParseLiteralOnly(t *testing.T) {
	tpl := MustParse("no placeholders here")
	if got := tpl.Render(Context{}); got != "no placeholders here" {
		t.Fatalf("Render = %q", got)
	}
}
