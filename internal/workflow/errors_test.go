package workflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, CategoryGeneric},
		{"parse error type", &ParseError{Target: "outline", Err: errors.New("bad token")}, CategoryParsing},
		{"wrapped parse error", fmt.Errorf("step failed: %w", &ParseError{Target: "chapter review", Err: errors.New("x")}), CategoryParsing},
		{"JSON in message", errors.New("invalid JSON payload"), CategoryParsing},
		{"parsing in message", errors.New("Parsing the response failed"), CategoryParsing},
		{"API in message", errors.New("API quota exceeded"), CategoryCredential},
		{"key in message", errors.New("invalid api key supplied"), CategoryCredential},
		{"credential in message", errors.New("missing credentials"), CategoryCredential},
		{"unauthorized in message", errors.New("401 Unauthorized"), CategoryCredential},
		{"anything else", errors.New("disk full"), CategoryGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.err))
		})
	}
}

func TestTypedErrorMessages(t *testing.T) {
	parseErr := &ParseError{Target: "outline", Err: errors.New("unexpected end of input")}
	assert.Equal(t, "parsing outline: unexpected end of input", parseErr.Error())
	assert.ErrorIs(t, parseErr, parseErr.Err)

	idxErr := &IndexError{Index: 4, Count: 3}
	assert.Equal(t, "chapter index 4 out of range (have 3 chapters)", idxErr.Error())

	outlineLimit := &RevisionLimitError{Scope: "outline", Limit: 3}
	assert.Equal(t, "outline hit the revision limit of 3", outlineLimit.Error())

	chapterLimit := &RevisionLimitError{Scope: "chapter", Chapter: 2, Limit: 3}
	assert.Equal(t, "chapter 2 hit the revision limit of 3", chapterLimit.Error())
}

func TestRevisionPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultRevisionPolicy().Validate())
	assert.NoError(t, RevisionPolicy{MaxOutlineRevisions: 0, MaxChapterRevisions: 0, OnExhausted: ExhaustFail}.Validate())

	assert.Error(t, RevisionPolicy{MaxOutlineRevisions: -1, MaxChapterRevisions: 3, OnExhausted: ExhaustAccept}.Validate())
	assert.Error(t, RevisionPolicy{MaxOutlineRevisions: 3, MaxChapterRevisions: -2, OnExhausted: ExhaustAccept}.Validate())
	assert.Error(t, RevisionPolicy{MaxOutlineRevisions: 3, MaxChapterRevisions: 3, OnExhausted: "retry"}.Validate())
	assert.Error(t, RevisionPolicy{MaxOutlineRevisions: 3, MaxChapterRevisions: 3}.Validate())
}
