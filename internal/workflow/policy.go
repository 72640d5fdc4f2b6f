package workflow

import "fmt"

// ExhaustionMode selects what happens when a revision cap is reached.
type ExhaustionMode string

const (
	// ExhaustAccept force-accepts the latest draft and moves on. The run
	// records which drafts were accepted this way.
	ExhaustAccept ExhaustionMode = "accept"
	// ExhaustFail aborts the run with a RevisionLimitError.
	ExhaustFail ExhaustionMode = "fail"
)

// RevisionPolicy bounds the otherwise open-ended review/revise loops. A cap
// of N allows at most N revision cycles before the exhaustion mode applies
// to the next failing review.
type RevisionPolicy struct {
	MaxOutlineRevisions int
	MaxChapterRevisions int
	OnExhausted         ExhaustionMode
}

func DefaultRevisionPolicy() RevisionPolicy {
	return RevisionPolicy{
		MaxOutlineRevisions: 3,
		MaxChapterRevisions: 3,
		OnExhausted:         ExhaustAccept,
	}
}

func (p RevisionPolicy) Validate() error {
	if p.MaxOutlineRevisions < 0 {
		return fmt.Errorf("max outline revisions must not be negative; got %d", p.MaxOutlineRevisions)
	}
	if p.MaxChapterRevisions < 0 {
		return fmt.Errorf("max chapter revisions must not be negative; got %d", p.MaxChapterRevisions)
	}
	switch p.OnExhausted {
	case ExhaustAccept, ExhaustFail:
	default:
		return fmt.Errorf("unknown exhaustion mode: %q", p.OnExhausted)
	}
	return nil
}
