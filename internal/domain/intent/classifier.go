// Package intent classifies cleaned utterance text into one of four fixed
// request categories using weighted keyword scoring.
package intent

import "strings"

// Type is the classified request category.
type Type string

const (
	TypeBugFix         Type = "bug_fix"
	TypeAddFeature     Type = "add_feature"
	TypeExplainCode    Type = "explain_code"
	TypeSpecGeneration Type = "spec_generation"
)

// order fixes both iteration order and the tie-break: a later category only
// wins on a strictly greater score. Changing this order changes output for
// exact ties, so treat it as part of the contract.
var order = []Type{TypeBugFix, TypeAddFeature, TypeExplainCode, TypeSpecGeneration}

// Classification is the output of Classify. Keywords are deduplicated.
type Classification struct {
	Type       Type     `json:"type"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

var patterns = map[Type][]string{
	TypeBugFix: {
		"fix", "broken", "bug", "error", "issue", "problem",
		"not working", "doesn't work", "won't work", "isn't working",
		"crash", "failing", "failed", "wrong", "incorrect",
		"debug", "troubleshoot", "resolve", "repair",
	},
	TypeAddFeature: {
		"add", "create", "build", "implement", "make", "new",
		"feature", "functionality", "component", "module",
		"develop", "design", "construct", "generate",
		"want", "need", "should have", "would like",
	},
	TypeExplainCode: {
		"explain", "understand", "what does", "how does", "why does",
		"what is", "how is", "tell me about", "describe",
		"clarify", "help me understand", "walk me through",
		"meaning", "purpose", "function of",
	},
	TypeSpecGeneration: {
		"spec", "specification", "prd", "requirements", "document",
		"design doc", "technical design", "architecture",
		"write up", "documentation", "outline", "plan",
		"sdd", "ttd", "user stories", "acceptance criteria",
		"create a prd", "write a prd", "generate a prd",
	},
}

// Position weights: keywords near the start carry more signal.
const (
	weightStart  = 1.5
	weightMiddle = 1.0
	weightEnd    = 0.8

	multiWordBonus = 0.5

	// maxExpectedScore normalizes the raw score into [0,1]; very clear
	// requests land around 5-6.
	maxExpectedScore = 6.0

	minMatchedConfidence = 0.3
	noMatchConfidence    = 0.1
)

// Classify scores text against every category's keyword list and returns the
// best match. Deterministic: identical input always yields identical output.
// Text with no matching pattern falls back to add_feature at low confidence.
func Classify(text string) Classification {
	lower := strings.ToLower(text)

	type tally struct {
		score    float64
		keywords []string
	}
	scores := make(map[Type]*tally, len(order))
	for _, t := range order {
		scores[t] = &tally{}
	}

	for _, t := range order {
		for _, pattern := range patterns[t] {
			pos := strings.Index(lower, pattern)
			if pos < 0 {
				continue
			}

			weight := weightMiddle
			if len(lower) > 0 {
				switch rel := float64(pos) / float64(len(lower)); {
				case rel < 0.2:
					weight = weightStart
				case rel > 0.8:
					weight = weightEnd
				}
			}
			if strings.Contains(pattern, " ") {
				weight += multiWordBonus
			}

			scores[t].score += weight
			scores[t].keywords = append(scores[t].keywords, pattern)
		}
	}

	best := TypeAddFeature
	bestScore := 0.0
	for _, t := range order {
		if scores[t].score > bestScore {
			bestScore = scores[t].score
			best = t
		}
	}

	confidence := noMatchConfidence
	if bestScore > 0 {
		confidence = bestScore / maxExpectedScore
		if confidence > 1 {
			confidence = 1
		}
		if confidence < minMatchedConfidence {
			confidence = minMatchedConfidence
		}
	}

	return Classification{
		Type:       best,
		Confidence: confidence,
		Keywords:   dedupe(scores[best].keywords),
	}
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
