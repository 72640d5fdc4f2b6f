package workflow

import "bookforge/internal/book"

// Router results, mapped to step names when the graph is wired.
const (
	routeError           = "error"
	routeReviseOutline   = "revise_outline"
	routePlanChapters    = "plan_chapters"
	routeReviseChapter   = "revise_chapter"
	routeCheckCompletion = "check_completion"
	routeNextChapter     = "next_chapter"
	routeCompile         = "compile"
)

// routeAfterOutlineReview sends a revising outline back for another pass
// and everything else forward into chapter work.
func routeAfterOutlineReview(s *book.WorkflowState) string {
	if s.Err != nil || s.Outline == nil {
		return routeError
	}
	if s.Outline.Status == book.OutlineRevising {
		return routeReviseOutline
	}
	return routePlanChapters
}

// routeAfterChapterReview sends a revising chapter back for another pass
// and everything else on to the completion check.
func routeAfterChapterReview(s *book.WorkflowState) string {
	if s.Err != nil {
		return routeError
	}
	ch, ok := s.CurrentChapter()
	if !ok {
		return routeError
	}
	if ch.Status == book.ChapterRevising {
		return routeReviseChapter
	}
	return routeCheckCompletion
}

// routeAfterCompletionCheck loops back into the next chapter while any
// remain, otherwise moves on to compilation.
func routeAfterCompletionCheck(s *book.WorkflowState) string {
	if s.Err != nil {
		return routeError
	}
	if s.MoreChapters {
		return routeNextChapter
	}
	return routeCompile
}
