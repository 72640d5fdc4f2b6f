// Package workflow drives complete book runs through a fixed step graph:
// outline drafting and review, the per-chapter generate/review/revise loop,
// then compilation, format rendering and export.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"bookforge/internal/book"
	"bookforge/internal/export"
	"bookforge/internal/llm/client"
	"bookforge/internal/prompts"
)

// EngineConfig tunes one engine instance. The zero value gets the default
// revision policy, rubric scorer and step budget.
type EngineConfig struct {
	Policy RevisionPolicy

	// ReviewBackoff is the pause before each chapter review call.
	ReviewBackoff time.Duration

	// StepLimit bounds the number of graph steps in a single run.
	StepLimit int

	// Observer, when set, is invoked after every executed step.
	Observer Observer

	// Scorer overrides the outline rubric scorer.
	Scorer RubricScorer
}

// Engine runs the book workflow end to end. One engine is safe for
// sequential reuse across runs; each run gets its own state.
type Engine struct {
	generator client.TextGenerator
	registry  *prompts.Registry
	writer    *export.Writer
	scorer    RubricScorer
	policy    RevisionPolicy
	backoff   time.Duration
	logger    zerolog.Logger
	graph     *Graph
}

// NewEngine wires an engine from its collaborators. The generator, prompt
// registry and writer are required; logger may be nil for silent runs.
func NewEngine(cfg EngineConfig, generator client.TextGenerator, registry *prompts.Registry, writer *export.Writer, logger *zerolog.Logger) (*Engine, error) {
	if generator == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("prompt registry is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("export writer is required")
	}

	if cfg.Policy == (RevisionPolicy{}) {
		cfg.Policy = DefaultRevisionPolicy()
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("revision policy: %w", err)
	}

	scorer := cfg.Scorer
	if scorer == nil {
		scorer = NewRegexScorer()
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}

	e := &Engine{
		generator: generator,
		registry:  registry,
		writer:    writer,
		scorer:    scorer,
		policy:    cfg.Policy,
		backoff:   cfg.ReviewBackoff,
		logger:    log,
	}

	graph, err := e.buildGraph(cfg)
	if err != nil {
		return nil, fmt.Errorf("building workflow graph: %w", err)
	}
	e.graph = graph
	return e, nil
}

// buildGraph wires the fixed workflow topology. The wiring is static, so
// any error here is a programming mistake caught by NewEngine.
func (e *Engine) buildGraph(cfg EngineConfig) (*Graph, error) {
	g := NewGraph()

	var err error
	node := func(step string, fn NodeFunc) {
		if err == nil {
			err = g.AddNode(step, fn)
		}
	}
	edge := func(from, to string) {
		if err == nil {
			err = g.AddEdge(from, to)
		}
	}
	branch := func(from string, router RouterFunc, targets map[string]string) {
		if err == nil {
			err = g.AddBranch(from, router, targets)
		}
	}

	node(StepInitialize, e.initialize)
	node(StepGenerateOutline, e.generateOutline)
	node(StepReviewOutline, e.reviewOutline)
	node(StepReviseOutline, e.reviseOutline)
	node(StepContextManager, e.manageContext)
	node(StepGenerateChapter, e.generateChapter)
	node(StepReviewChapter, e.reviewChapter)
	node(StepReviseChapter, e.reviseChapter)
	node(StepChapterCompletion, e.completeChapter)
	node(StepCompilation, e.compileBook)
	node(StepFormatConversion, e.convertFormat)
	node(StepExport, e.exportBook)
	node(StepErrorHandler, e.handleError)

	edge(StepInitialize, StepGenerateOutline)
	edge(StepGenerateOutline, StepReviewOutline)
	edge(StepReviseOutline, StepReviewOutline)
	edge(StepContextManager, StepGenerateChapter)
	edge(StepGenerateChapter, StepReviewChapter)
	edge(StepReviseChapter, StepReviewChapter)
	edge(StepCompilation, StepFormatConversion)
	edge(StepFormatConversion, StepExport)
	edge(StepExport, End)
	edge(StepErrorHandler, End)

	branch(StepReviewOutline, routeAfterOutlineReview, map[string]string{
		routeReviseOutline: StepReviseOutline,
		routePlanChapters:  StepContextManager,
		routeError:         StepErrorHandler,
	})
	branch(StepReviewChapter, routeAfterChapterReview, map[string]string{
		routeReviseChapter:   StepReviseChapter,
		routeCheckCompletion: StepChapterCompletion,
		routeError:           StepErrorHandler,
	})
	branch(StepChapterCompletion, routeAfterCompletionCheck, map[string]string{
		routeNextChapter: StepContextManager,
		routeCompile:     StepCompilation,
		routeError:       StepErrorHandler,
	})

	if err != nil {
		return nil, err
	}

	g.SetEntryPoint(StepInitialize)
	g.SetErrorStep(StepErrorHandler)
	if cfg.StepLimit > 0 {
		g.SetStepLimit(cfg.StepLimit)
	}
	if cfg.Observer != nil {
		g.SetObserver(cfg.Observer)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// RunResult is the exit contract of a run: either the export artifacts, or
// the state a failed run got to before its error.
type RunResult struct {
	ExportComplete  bool
	OutputPath      string
	CompiledContent string
	State           *book.WorkflowState
}

// Run executes one complete book run. The result is populated even when
// the run failed partway, so callers can inspect how far it got.
func (e *Engine) Run(ctx context.Context, req book.GenerationRequest) (*RunResult, error) {
	state := book.NewWorkflowState(req)
	err := e.graph.Run(ctx, state)

	result := &RunResult{
		ExportComplete:  state.ExportComplete,
		OutputPath:      state.OutputPath,
		CompiledContent: state.CompiledContent,
		State:           state,
	}
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("category", string(Categorize(err))).
			Msg("book run failed")
		return result, err
	}

	e.logger.Info().
		Str("path", state.OutputPath).
		Int("chapters", state.ChapterCount()).
		Int("chapter_revisions", state.TotalChapterRevisions()).
		Msg("book run complete")
	return result, nil
}

// sleepContext waits for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
