package dispatch

// Provider describes one downstream coding assistant.
type Provider struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Method      Method `json:"method"`
	Available   bool   `json:"available"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description"`
}

// providers is the static table, in display order. Clipboard delivery for
// everything that ships today; direct API providers stay listed but
// unavailable until credentials plumbing lands.
var providers = []Provider{
	{
		Name:        "cursor",
		DisplayName: "Cursor Composer",
		Method:      MethodClipboard,
		Available:   true,
		Command:     "composer.openComposer",
		Description: "Opens Cursor Composer and copies prompt to clipboard",
	},
	{
		Name:        "copilot",
		DisplayName: "GitHub Copilot Chat",
		Method:      MethodClipboard,
		Available:   true,
		Command:     "github.copilot.chat.focus",
		Description: "Opens Copilot Chat and copies prompt to clipboard",
	},
	{
		Name:        "claude",
		DisplayName: "Claude (via API)",
		Method:      MethodAPI,
		Available:   false,
		Description: "Direct API call to Claude (coming soon)",
	},
	{
		Name:        "gpt",
		DisplayName: "ChatGPT (via API)",
		Method:      MethodAPI,
		Available:   false,
		Description: "Direct API call to GPT-4 (coming soon)",
	},
	{
		Name:        "windsurf",
		DisplayName: "Windsurf Cascade",
		Method:      MethodClipboard,
		Available:   true,
		Command:     "cascade.focus",
		Description: "Opens Windsurf Cascade and copies prompt to clipboard",
	},
}

func providerByName(name string) (Provider, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

// Providers returns the full provider table.
func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// AvailableProviders returns only providers that can accept a dispatch now.
func AvailableProviders() []Provider {
	var out []Provider
	for _, p := range providers {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

// IsValidTarget reports whether name is a known provider id.
func IsValidTarget(name string) bool {
	_, ok := providerByName(name)
	return ok
}
