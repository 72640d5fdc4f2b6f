package workflow

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ChapterReview is the structured verdict the chapter rubric prompt asks
// the model to return.
type ChapterReview struct {
	NeedsRevision       bool               `json:"needs_revision"`
	QualityScore        float64            `json:"quality_score"`
	ScoreBreakdown      map[string]float64 `json:"score_breakdown,omitempty"`
	Tone                string             `json:"tone"`
	Issues              []string           `json:"issues"`
	RevisionSuggestions []string           `json:"revision_suggestions"`

	// Defaulted marks a review substituted after unusable model output.
	// The zero quality score fails the threshold, so a defaulted review
	// deterministically routes the chapter into revision.
	Defaulted bool `json:"-"`
}

// DefaultChapterReview is the safe substitute used when the model's review
// cannot be parsed.
func DefaultChapterReview() ChapterReview {
	return ChapterReview{
		NeedsRevision:       false,
		QualityScore:        0,
		Tone:                "unknown",
		Issues:              []string{},
		RevisionSuggestions: []string{},
		Defaulted:           true,
	}
}

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	braceBlockRe  = regexp.MustCompile(`(?s)(\{.*\})`)
)

// ExtractFencedJSON strips a Markdown code fence from outline output:
// everything between the first ```json (or bare ```) fence and the next
// fence. Unfenced text is returned trimmed.
func ExtractFencedJSON(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}

// ExtractJSONBlock pulls the first JSON block from chapter-review output,
// tolerating code-fence wrapping and falling back to matching the outermost
// braces.
func ExtractJSONBlock(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := braceBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ParseChapterReview decodes the model's review. On any decode failure it
// returns the default review alongside a ParseError so the caller can log
// the substitution and continue.
func ParseChapterReview(raw string) (ChapterReview, error) {
	cleaned := ExtractJSONBlock(raw)
	var review ChapterReview
	if err := json.Unmarshal([]byte(cleaned), &review); err != nil {
		return DefaultChapterReview(), &ParseError{Target: "chapter review", Err: err}
	}
	return review, nil
}
