// Package prompt holds request-level types shared across the prompt pipeline.
package prompt

// IDEType identifies the editor the request originated from.
type IDEType string

const (
	IDECursor   IDEType = "cursor"
	IDEVSCode   IDEType = "vscode"
	IDEWindsurf IDEType = "windsurf"
	IDEOther    IDEType = "other"
)

// ParseIDEType maps a raw string to a known IDEType, defaulting to IDEOther.
func ParseIDEType(s string) IDEType {
	switch IDEType(s) {
	case IDECursor, IDEVSCode, IDEWindsurf:
		return IDEType(s)
	default:
		return IDEOther
	}
}

// IDEContext describes the editor state accompanying an utterance.
// HasCursorLine records whether a cursor position was supplied at all, so an
// explicit line 0 is distinguishable from "no cursor".
type IDEContext struct {
	ActiveFile    string  `json:"activeFile,omitempty"`
	SelectedCode  string  `json:"selectedCode,omitempty"`
	CursorLine    int     `json:"cursorLine"`
	HasCursorLine bool    `json:"hasCursorLine,omitempty"`
	IDEType       IDEType `json:"ideType,omitempty"`
	LanguageID    string  `json:"languageId,omitempty"`
}
