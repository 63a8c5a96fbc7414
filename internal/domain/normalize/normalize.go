// Package normalize cleans raw utterance text and extracts tone, goal and
// frustration markers. All functions are pure and never fail.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// Tone is the detected emotional coloring of an utterance.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneFrustrated Tone = "frustrated"
	ToneExcited    Tone = "excited"
	ToneConfused   Tone = "confused"
	ToneUrgent     Tone = "urgent"
)

// Result is the output of Normalize. Immutable once returned.
type Result struct {
	CleanText    string   `json:"cleanText"`
	Tone         Tone     `json:"tone"`
	PossibleGoal string   `json:"possibleGoal"`
	Frustrations []string `json:"frustrations"`
}

// fillerWords are removed anywhere in the text on whole-word boundaries.
var fillerWords = []string{
	"um", "uh", "uhh", "umm", "er", "ah", "ahh",
	"like", "you know", "basically", "actually",
	"sort of", "kind of", "i mean", "well",
}

// startFillers are stripped repeatedly from the front after cleanup.
var startFillers = []string{"so", "okay", "ok", "alright", "right"}

var frustrationWords = []string{
	"broken", "stupid", "dumb", "annoying", "frustrating",
	"hate", "terrible", "awful", "horrible", "worst",
	"won't work", "doesn't work", "isn't working", "not working",
	"keeps failing", "keeps breaking", "always fails",
}

var urgencyWords = []string{
	"immediately", "asap", "urgent", "urgently", "right now",
	"quickly", "fast", "hurry", "critical", "emergency",
}

var confusionWords = []string{
	"don't understand", "doesn't make sense", "confused",
	"what is", "why does", "how come", "no idea",
	"lost", "stuck", "help me understand",
}

var positiveWords = regexp.MustCompile(`\b(amazing|awesome|great|love|excited)\b`)

// fillerPatterns are compiled once; whole-word matching keeps "like" inside
// "likely" untouched.
var fillerPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(fillerWords))
	for i, w := range fillerWords {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}()

// goalPatterns are lead-in phrases tried in order against the cleaned text.
// The first capturing group is the goal candidate.
var goalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i want to (.+)`),
	regexp.MustCompile(`(?i)i need to (.+)`),
	regexp.MustCompile(`(?i)can you (.+)`),
	regexp.MustCompile(`(?i)please (.+)`),
	regexp.MustCompile(`(?i)help me (.+)`),
	regexp.MustCompile(`(?i)i'd like to (.+)`),
	regexp.MustCompile(`(?i)could you (.+)`),
	regexp.MustCompile(`(?i)would you (.+)`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)
var trailingPunct = regexp.MustCompile(`[.?!]+$`)

// Normalize cleans rawText and derives tone, goal and frustration markers.
// Tone and frustrations are detected on the original lower-cased text so
// that filler removal cannot hide emotional cues; the goal is extracted
// from the cleaned text. Empty input yields an empty result.
func Normalize(rawText string) Result {
	text := strings.TrimSpace(strings.ToLower(rawText))
	original := text

	for _, p := range fillerPatterns {
		text = p.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	text = stripStartFillers(text)
	text = capitalize(text)

	return Result{
		CleanText:    text,
		Tone:         detectTone(original),
		PossibleGoal: extractGoal(text),
		Frustrations: findFrustrations(original),
	}
}

// stripStartFillers repeatedly removes a leading filler word until none
// remain. Running after whole-word removal catches fillers that were
// exposed at the front by the earlier pass.
func stripStartFillers(text string) string {
	for changed := true; changed; {
		changed = false
		for _, filler := range startFillers {
			if rest, ok := strings.CutPrefix(text, filler+" "); ok {
				text = strings.TrimSpace(rest)
				changed = true
			}
		}
	}
	return text
}

func capitalize(text string) string {
	if text == "" {
		return text
	}
	r := []rune(text)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// detectTone scans category vocabularies in fixed priority order; the first
// category with any substring match wins, regardless of match count.
func detectTone(text string) Tone {
	for _, w := range confusionWords {
		if strings.Contains(text, w) {
			return ToneConfused
		}
	}
	for _, w := range urgencyWords {
		if strings.Contains(text, w) {
			return ToneUrgent
		}
	}
	for _, w := range frustrationWords {
		if strings.Contains(text, w) {
			return ToneFrustrated
		}
	}
	if strings.Contains(text, "!") || positiveWords.MatchString(text) {
		return ToneExcited
	}
	return ToneNeutral
}

// extractGoal returns the first lead-in pattern capture with trailing
// punctuation stripped, or the whole cleaned text when nothing matches.
func extractGoal(cleanText string) string {
	for _, p := range goalPatterns {
		if m := p.FindStringSubmatch(cleanText); len(m) > 1 && m[1] != "" {
			goal := strings.TrimSpace(m[1])
			return trailingPunct.ReplaceAllString(goal, "")
		}
	}
	return cleanText
}

// findFrustrations returns every frustration phrase present as a substring,
// ordered by vocabulary position, not by position in the text.
func findFrustrations(text string) []string {
	var found []string
	for _, w := range frustrationWords {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}
