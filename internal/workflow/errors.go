package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStepLimit aborts a run whose driver loop exceeds the configured step
// budget, guarding against wiring mistakes that would otherwise spin
// forever.
var ErrStepLimit = errors.New("workflow step limit exceeded")

// ParseError marks model output that did not contain the structure a step
// expected. Outline-stage parse failures abort the run; the chapter review
// step absorbs them by substituting a default review instead.
type ParseError struct {
	Target string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Target, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IndexError reports a chapter pointer outside the planned sequence. The
// context step keeps the pointer valid, so hitting this means a wiring bug.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("chapter index %d out of range (have %d chapters)", e.Index, e.Count)
}

// RevisionLimitError aborts a run whose outline or chapter hit the revision
// cap while the policy demands failure instead of forced acceptance.
type RevisionLimitError struct {
	Scope   string
	Chapter int
	Limit   int
}

func (e *RevisionLimitError) Error() string {
	if e.Scope == "chapter" {
		return fmt.Sprintf("chapter %d hit the revision limit of %d", e.Chapter, e.Limit)
	}
	return fmt.Sprintf("outline hit the revision limit of %d", e.Limit)
}

// ErrorCategory is the coarse classification shown to users when a run
// fails: a model-output parsing problem, a credential problem, or anything
// else.
type ErrorCategory string

const (
	CategoryParsing    ErrorCategory = "parsing"
	CategoryCredential ErrorCategory = "credential"
	CategoryGeneric    ErrorCategory = "generic"
)

// Categorize maps an error to the user-facing category.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryGeneric
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return CategoryParsing
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(msg, "JSON") || strings.Contains(lower, "parsing") {
		return CategoryParsing
	}
	if strings.Contains(msg, "API") || strings.Contains(lower, "key") ||
		strings.Contains(lower, "credential") || strings.Contains(lower, "unauthorized") {
		return CategoryCredential
	}
	return CategoryGeneric
}
