package workflow

import (
	"regexp"
	"strconv"
)

// RubricScorer extracts the ordered numeric scores from a reviewer's text.
// It is injected into the engine so stricter structured-output scoring can
// replace pattern matching without touching the state machine.
type RubricScorer interface {
	Scores(text string) []float64
}

// RegexScorer pulls every "<criterion>: N/10" fragment out of free-form
// critique text. Missing or partial matches simply yield fewer scores;
// an empty list fails the outline threshold, which is the safe default.
type RegexScorer struct {
	re *regexp.Regexp
}

func NewRegexScorer() *RegexScorer {
	return &RegexScorer{re: regexp.MustCompile(`:\s*(\d{1,2})/10`)}
}

func (s *RegexScorer) Scores(text string) []float64 {
	matches := s.re.FindAllStringSubmatch(text, -1)
	scores := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		scores = append(scores, float64(n))
	}
	return scores
}
