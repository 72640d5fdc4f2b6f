package workflow

import (
	"context"
	"fmt"
	"strings"

	"bookforge/internal/book"
	"bookforge/internal/events"
	"bookforge/internal/export"
	"bookforge/internal/prompts"
)

// Step names double as progress event stages so the shells can key their
// display text off them.
const (
	StepInitialize        = "initialize"
	StepGenerateOutline   = "generate_outline"
	StepReviewOutline     = "review_outline"
	StepReviseOutline     = "revise_outline"
	StepContextManager    = "context_manager"
	StepGenerateChapter   = "generate_chapter"
	StepReviewChapter     = "review_chapter"
	StepReviseChapter     = "revise_chapter"
	StepChapterCompletion = "chapter_completion"
	StepCompilation       = "compilation"
	StepFormatConversion  = "format_conversion"
	StepExport            = "export"
	StepErrorHandler      = "error_handler"
)

// outlineApprovalThreshold is the minimum summed rubric score (seven
// criteria, ten points each) that approves an outline outright.
const outlineApprovalThreshold = 50.0

// chapterQualityThreshold is the minimum review quality score that lets a
// chapter through without another revision pass.
const chapterQualityThreshold = 8.0

func (e *Engine) initialize(ctx context.Context, s *book.WorkflowState) error {
	if strings.TrimSpace(s.Request.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	e.logger.Info().
		Str("topic", s.Request.Topic).
		Str("format", string(s.Request.Format)).
		Msg("starting book run")
	events.Emit(ctx, events.RunProgress, events.NewInfo(StepInitialize, fmt.Sprintf("Starting run for %q", s.Request.Topic)))
	return nil
}

func (e *Engine) generateOutline(ctx context.Context, s *book.WorkflowState) error {
	additional := ""
	if req := strings.TrimSpace(s.Request.Requirements); req != "" {
		additional = "\nAdditional requirements: " + req
	}
	msgs, err := e.registry.Render(ctx, prompts.PromptOutlineGeneration, map[string]any{
		"topic":                  s.Request.Topic,
		"target_audience":        s.Request.Audience,
		"tone":                   s.Request.Tone,
		"additional_description": additional,
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, events.RunProgress, events.NewInfo(StepGenerateOutline, "Drafting outline"))
	raw, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		return err
	}

	outline, err := book.ParseOutline([]byte(ExtractFencedJSON(raw)))
	if err != nil {
		return &ParseError{Target: "outline", Err: err}
	}
	outline.Status = book.OutlineReview
	s.Outline = outline

	e.logger.Info().
		Str("title", outline.Title).
		Int("chapters", len(outline.Chapters)).
		Msg("outline drafted")
	return nil
}

// reviewOutline scores the outline draft against the rubric. A failed
// review call reads as an empty critique, which scores zero and sends the
// outline back for revision rather than aborting the run.
func (e *Engine) reviewOutline(ctx context.Context, s *book.WorkflowState) error {
	if s.Outline == nil {
		return fmt.Errorf("no outline to review")
	}
	outlineJSON, err := s.Outline.JSON()
	if err != nil {
		return err
	}
	msgs, err := e.registry.Render(ctx, prompts.PromptOutlineReview, map[string]any{
		"outline": outlineJSON,
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, events.RunProgress, events.NewInfo(StepReviewOutline, "Scoring outline"))
	critique, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		e.logger.Warn().Err(err).Msg("outline review call failed")
		critique = ""
	}

	total := 0.0
	scores := e.scorer.Scores(critique)
	for _, score := range scores {
		total += score
	}
	e.logger.Info().
		Int("criteria", len(scores)).
		Float64("total", total).
		Msg("outline scored")

	if total >= outlineApprovalThreshold {
		s.Outline.Status = book.OutlineApproved
		s.Outline.RevisionNotes = ""
		events.Emit(ctx, events.RunProgress, events.NewSuccess(StepReviewOutline, fmt.Sprintf("Outline approved (score %.0f)", total)))
		return nil
	}

	if s.OutlineRevisions >= e.policy.MaxOutlineRevisions {
		if e.policy.OnExhausted == ExhaustFail {
			return &RevisionLimitError{Scope: "outline", Limit: e.policy.MaxOutlineRevisions}
		}
		s.Outline.Status = book.OutlineApproved
		s.Outline.RevisionNotes = ""
		s.ForcedOutline = true
		e.logger.Warn().
			Int("revisions", s.OutlineRevisions).
			Msg("outline revision cap reached, accepting latest draft")
		events.Emit(ctx, events.RunProgress, events.NewWarn(StepReviewOutline, "Outline accepted after exhausting revisions"))
		return nil
	}

	s.Outline.Status = book.OutlineRevising
	s.Outline.RevisionNotes = critique
	s.OutlineRevisions++
	events.Emit(ctx, events.RunProgress, events.NewInfo(StepReviewOutline, "Outline needs another pass"))
	return nil
}

func (e *Engine) reviseOutline(ctx context.Context, s *book.WorkflowState) error {
	if s.Outline == nil {
		return fmt.Errorf("no outline to revise")
	}
	current, err := s.Outline.JSON()
	if err != nil {
		return err
	}
	msgs, err := e.registry.Render(ctx, prompts.PromptOutlineRevision, map[string]any{
		"title":           s.Outline.Title,
		"topic":           s.Request.Topic,
		"revision_notes":  s.Outline.RevisionNotes,
		"current_outline": current,
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, events.RunProgress, events.NewInfo(StepReviseOutline, "Revising outline"))
	raw, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		return err
	}

	revised, err := book.ParseOutline([]byte(ExtractFencedJSON(raw)))
	if err != nil {
		return &ParseError{Target: "revised outline", Err: err}
	}
	revised.Status = book.OutlineReview
	s.Outline = revised

	e.logger.Info().
		Str("title", revised.Title).
		Int("chapters", len(revised.Chapters)).
		Msg("outline revised")
	return nil
}

// manageContext primes the current chapter with a digest of everything
// drafted before it, so each chapter call carries continuity.
func (e *Engine) manageContext(ctx context.Context, s *book.WorkflowState) error {
	ch, ok := s.CurrentChapter()
	if !ok {
		return &IndexError{Index: s.ChapterIndex, Count: s.ChapterCount()}
	}
	ch.Status = book.ChapterGenerating

	var b strings.Builder
	if s.ChapterIndex > 0 {
		b.WriteString("Previous chapters covered:\n")
		for _, prev := range s.Outline.Chapters[:s.ChapterIndex] {
			if prev.Content != "" {
				fmt.Fprintf(&b, "- Chapter %d: %s (Summary of key points)\n", prev.Number, prev.Title)
			} else {
				fmt.Fprintf(&b, "- Chapter %d: %s\n", prev.Number, prev.Title)
				for _, point := range prev.BulletPoints {
					fmt.Fprintf(&b, "  • %s\n", point)
				}
			}
		}
	}
	s.PreviousContext = b.String()
	return nil
}

func (e *Engine) generateChapter(ctx context.Context, s *book.WorkflowState) error {
	ch, ok := s.CurrentChapter()
	if !ok {
		return &IndexError{Index: s.ChapterIndex, Count: s.ChapterCount()}
	}

	bullets := make([]string, 0, len(ch.BulletPoints))
	for _, point := range ch.BulletPoints {
		bullets = append(bullets, "- "+point)
	}
	additional := ""
	if req := strings.TrimSpace(s.Request.Requirements); req != "" {
		additional = "\n\nAdditional context to consider: " + req
	}

	msgs, err := e.registry.Render(ctx, prompts.PromptChapterGeneration, map[string]any{
		"chapter_number":     ch.Number,
		"chapter_title":      ch.Title,
		"ebook_title":        s.Outline.Title,
		"previous_context":   s.PreviousContext,
		"bullet_points":      strings.Join(bullets, "\n"),
		"additional_context": additional,
		"target_audience":    s.Request.Audience,
		"tone":               s.Request.Tone,
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, events.RunProgress,
		events.NewInfo(StepGenerateChapter, fmt.Sprintf("Writing chapter %d: %s", ch.Number, ch.Title)).ForChapter(ch.Number))
	content, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		return err
	}

	// Emphasis markup never survives into the final document.
	ch.Content = strings.ReplaceAll(content, "*", "")
	ch.Status = book.ChapterReview

	e.logger.Info().
		Int("chapter", ch.Number).
		Int("chars", len(ch.Content)).
		Msg("chapter drafted")
	return nil
}

// reviewChapter asks the model for a structured verdict on the current
// draft. A failed call or unparsable verdict falls back to the default
// review, whose zero quality score forces a revision pass.
func (e *Engine) reviewChapter(ctx context.Context, s *book.WorkflowState) error {
	ch, ok := s.CurrentChapter()
	if !ok {
		return &IndexError{Index: s.ChapterIndex, Count: s.ChapterCount()}
	}

	// Spacing out review calls keeps the run under provider rate limits.
	if err := sleepContext(ctx, e.backoff); err != nil {
		return err
	}

	review := e.fetchChapterReview(ctx, ch)

	if review.NeedsRevision || review.QualityScore < chapterQualityThreshold {
		if ch.RevisionCount >= e.policy.MaxChapterRevisions {
			if e.policy.OnExhausted == ExhaustFail {
				return &RevisionLimitError{Scope: "chapter", Chapter: ch.Number, Limit: e.policy.MaxChapterRevisions}
			}
			ch.Status = book.ChapterCompleted
			ch.RevisionNotes = ""
			s.ForcedChapters = append(s.ForcedChapters, ch.Number)
			e.logger.Warn().
				Int("chapter", ch.Number).
				Int("revisions", ch.RevisionCount).
				Msg("chapter revision cap reached, accepting latest draft")
			events.Emit(ctx, events.RunProgress,
				events.NewWarn(StepReviewChapter, fmt.Sprintf("Chapter %d accepted after exhausting revisions", ch.Number)).ForChapter(ch.Number))
			return nil
		}

		ch.Status = book.ChapterRevising
		ch.RevisionNotes = strings.Join(review.RevisionSuggestions, "\n")
		ch.RevisionCount++
		e.logger.Info().
			Int("chapter", ch.Number).
			Float64("score", review.QualityScore).
			Bool("defaulted", review.Defaulted).
			Msg("chapter revision requested")
		events.Emit(ctx, events.RunProgress,
			events.NewInfo(StepReviewChapter, fmt.Sprintf("Chapter %d needs revision", ch.Number)).ForChapter(ch.Number))
		return nil
	}

	ch.Status = book.ChapterCompleted
	e.logger.Info().
		Int("chapter", ch.Number).
		Float64("score", review.QualityScore).
		Msg("chapter approved")
	events.Emit(ctx, events.RunProgress,
		events.NewSuccess(StepReviewChapter, fmt.Sprintf("Chapter %d approved", ch.Number)).ForChapter(ch.Number))
	return nil
}

func (e *Engine) fetchChapterReview(ctx context.Context, ch *book.Chapter) ChapterReview {
	msgs, err := e.registry.Render(ctx, prompts.PromptChapterReview, map[string]any{
		"chapter_text": ch.Content,
	})
	if err != nil {
		e.logger.Warn().Err(err).Int("chapter", ch.Number).Msg("chapter review prompt failed, using default review")
		return DefaultChapterReview()
	}
	raw, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		e.logger.Warn().Err(err).Int("chapter", ch.Number).Msg("chapter review call failed, using default review")
		return DefaultChapterReview()
	}
	review, err := ParseChapterReview(raw)
	if err != nil {
		e.logger.Warn().Err(err).Int("chapter", ch.Number).Msg("chapter review unparsable, using default review")
	}
	return review
}

func (e *Engine) reviseChapter(ctx context.Context, s *book.WorkflowState) error {
	ch, ok := s.CurrentChapter()
	if !ok {
		return &IndexError{Index: s.ChapterIndex, Count: s.ChapterCount()}
	}

	msgs, err := e.registry.Render(ctx, prompts.PromptChapterRevision, map[string]any{
		"chapter_number": ch.Number,
		"chapter_title":  ch.Title,
		"ebook_title":    s.Outline.Title,
		"revision_notes": ch.RevisionNotes,
		"content":        ch.Content,
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, events.RunProgress,
		events.NewInfo(StepReviseChapter, fmt.Sprintf("Revising chapter %d", ch.Number)).ForChapter(ch.Number))
	content, err := e.generator.GenerateText(ctx, msgs)
	if err != nil {
		return err
	}

	ch.Content = strings.ReplaceAll(content, "*", "")
	ch.Status = book.ChapterReview
	ch.RevisionNotes = ""
	return nil
}

func (e *Engine) completeChapter(ctx context.Context, s *book.WorkflowState) error {
	if ch, ok := s.CurrentChapter(); ok && ch.Status != book.ChapterCompleted {
		ch.Status = book.ChapterCompleted
	}

	if s.ChapterIndex+1 < s.ChapterCount() {
		s.ChapterIndex++
		s.MoreChapters = true
		e.logger.Debug().Int("next", s.ChapterIndex+1).Msg("moving to next chapter")
	} else {
		s.MoreChapters = false
		e.logger.Info().Int("chapters", s.ChapterCount()).Msg("all chapters drafted")
	}
	return nil
}

func (e *Engine) compileBook(ctx context.Context, s *book.WorkflowState) error {
	if s.Outline == nil {
		return fmt.Errorf("no outline to compile")
	}
	events.Emit(ctx, events.RunProgress, events.NewInfo(StepCompilation, "Compiling manuscript"))
	s.CompiledContent = export.Compile(s.Outline, s.CreatedAt)
	return nil
}

func (e *Engine) convertFormat(ctx context.Context, s *book.WorkflowState) error {
	events.Emit(ctx, events.RunProgress,
		events.NewInfo(StepFormatConversion, fmt.Sprintf("Rendering %s file", s.Request.Format)))
	path, err := e.writer.Export(s.Outline, s.CompiledContent, s.Request.Format)
	if err != nil {
		return err
	}
	s.OutputPath = path

	e.logger.Info().Str("path", path).Msg("book rendered")
	return nil
}

func (e *Engine) exportBook(ctx context.Context, s *book.WorkflowState) error {
	s.ExportComplete = true
	events.Emit(ctx, events.RunProgress, events.NewSuccess(StepExport, "Book export complete"))
	return nil
}

// handleError is the terminal step for failed runs. It marks the error as
// handled so shells can distinguish a surfaced failure from a crash.
func (e *Engine) handleError(ctx context.Context, s *book.WorkflowState) error {
	s.ErrHandled = true
	if s.Err == nil {
		return nil
	}
	category := Categorize(s.Err)
	e.logger.Error().
		Err(s.Err).
		Str("category", string(category)).
		Msg("run aborted")
	events.Emit(ctx, events.RunProgress,
		events.NewError(StepErrorHandler, s.Err.Error()).WithMeta("category", string(category)))
	return nil
}
