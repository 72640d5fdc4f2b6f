package book

import "time"

// WorkflowState is the single mutable aggregate threaded through every
// workflow step. It has exactly one writer at any time: the run driver
// executes one step to completion before the next, so no locking is needed.
type WorkflowState struct {
	Request GenerationRequest

	// Outline is nil until outline generation succeeds.
	Outline *Outline

	// ChapterIndex points at the chapter currently being worked on.
	// 0 <= ChapterIndex < len(chapters) whenever chapters are present.
	ChapterIndex int

	// PreviousContext is rebuilt by the chapter-context step to prime
	// continuity with everything drafted so far.
	PreviousContext string

	// MoreChapters is the completion-check signal consumed by the router.
	MoreChapters bool

	// OutlineRevisions counts applied outline revision cycles.
	OutlineRevisions int

	// ForcedOutline and ForcedChapters mark drafts accepted by the
	// revision policy after the cycle cap, not by review score.
	ForcedOutline  bool
	ForcedChapters []int

	// Err is the terminal error slot. Once set, no content-producing
	// step may run. ErrHandled is set by the error branch.
	Err        error
	ErrHandled bool

	CreatedAt time.Time

	// Terminal artifacts.
	CompiledContent string
	OutputPath      string
	ExportComplete  bool
}

// NewWorkflowState seeds the aggregate for a fresh run.
func NewWorkflowState(req GenerationRequest) *WorkflowState {
	return &WorkflowState{
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
}

// CurrentChapter returns the chapter under the index pointer.
func (s *WorkflowState) CurrentChapter() (*Chapter, bool) {
	if s.Outline == nil {
		return nil, false
	}
	return s.Outline.ChapterAt(s.ChapterIndex)
}

// ChapterCount returns the number of planned chapters, zero before the
// outline exists.
func (s *WorkflowState) ChapterCount() int {
	if s.Outline == nil {
		return 0
	}
	return len(s.Outline.Chapters)
}

// TotalChapterRevisions sums the revision counters across all chapters.
func (s *WorkflowState) TotalChapterRevisions() int {
	total := 0
	if s.Outline == nil {
		return total
	}
	for _, ch := range s.Outline.Chapters {
		total += ch.RevisionCount
	}
	return total
}
