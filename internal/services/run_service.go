package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookforge/internal/book"
	"bookforge/internal/config"
	"bookforge/internal/events"
	"bookforge/internal/export"
	"bookforge/internal/llm/client"
	"bookforge/internal/models"
	"bookforge/internal/prompts"
	"bookforge/internal/repositories"
	"bookforge/internal/workflow"
)

// RunOptions carries one generation request as it arrives from the CLI or
// the HTTP API. Blank fields fall back to the stored app settings, then to
// the loaded configuration.
type RunOptions struct {
	Topic        string
	Audience     string
	Tone         string
	Format       string
	Requirements string
	Provider     string
	Model        string
	OutputDir    string

	// Streaming requests streamed token delivery from the provider for
	// this run. The client assembles chunks before any step sees them.
	Streaming bool

	// Observer, when set, receives every workflow step after the
	// persistence hook has run.
	Observer workflow.Observer
}

type BookRunService interface {
	Startup(ctx context.Context) error
	Execute(ctx context.Context, opts RunOptions) (*models.BookRun, error)
	Launch(ctx context.Context, opts RunOptions) (*models.BookRun, error)
	Get(key string) (*models.BookRun, error)
	ListRecent(limit int) ([]models.BookRun, error)
}

// ClientBuilder resolves a provider/model selection into a ready text
// generator. Satisfied by ClientService.
type ClientBuilder interface {
	Build(ctx context.Context, provider, apiName string, sampling client.SamplingConfig) (client.TextGenerator, *models.LLMModel, error)
}

type bookRunService struct {
	cfg      *config.Config
	runs     repositories.BookRunRepository
	clients  ClientBuilder
	settings AppSettingsService
	registry *prompts.Registry
	logger   zerolog.Logger
}

func NewBookRunService(cfg *config.Config, runs repositories.BookRunRepository, clients ClientBuilder, settings AppSettingsService, registry *prompts.Registry, logger zerolog.Logger) BookRunService {
	return &bookRunService{
		cfg:      cfg,
		runs:     runs,
		clients:  clients,
		settings: settings,
		registry: registry,
		logger:   logger,
	}
}

func (s *bookRunService) Startup(ctx context.Context) error {
	if s.cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if s.runs == nil {
		return fmt.Errorf("book run repository not configured")
	}
	if s.clients == nil {
		return fmt.Errorf("client service not configured")
	}
	if s.registry == nil {
		return fmt.Errorf("prompt registry not configured")
	}
	return nil
}

// preparedRun is a validated, recorded run ready to execute.
type preparedRun struct {
	run    *models.BookRun
	engine *workflow.Engine
	req    book.GenerationRequest
}

// Execute runs one complete book generation and records it. The returned
// BookRun reflects the final state even when the workflow failed; the error
// then explains why.
func (s *bookRunService) Execute(ctx context.Context, opts RunOptions) (*models.BookRun, error) {
	prepared, err := s.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.runPrepared(ctx, prepared)
}

// Launch validates and records the run, then executes the workflow in the
// background. The returned BookRun is a snapshot taken before the workflow
// starts; callers poll or stream against its key. The background run
// survives cancellation of ctx.
func (s *bookRunService) Launch(ctx context.Context, opts RunOptions) (*models.BookRun, error) {
	prepared, err := s.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	snapshot := *prepared.run
	go func() {
		if _, err := s.runPrepared(context.WithoutCancel(ctx), prepared); err != nil {
			s.logger.Error().Err(err).Str("run", prepared.run.Key).Msg("background run failed")
		}
	}()
	return &snapshot, nil
}

func (s *bookRunService) Get(key string) (*models.BookRun, error) {
	return s.runs.GetByKey(key)
}

func (s *bookRunService) ListRecent(limit int) ([]models.BookRun, error) {
	return s.runs.ListRecent(limit)
}

func (s *bookRunService) prepare(ctx context.Context, opts RunOptions) (*preparedRun, error) {
	defaults := s.loadDefaults()

	audience := firstNonEmpty(opts.Audience, defaults.DefaultAudience, s.cfg.Defaults.Audience)
	tone := firstNonEmpty(opts.Tone, defaults.DefaultTone, s.cfg.Defaults.Tone)
	format := firstNonEmpty(opts.Format, defaults.DefaultFormat, s.cfg.Defaults.Format)
	provider := firstNonEmpty(opts.Provider, defaults.Provider, s.cfg.LLM.Provider)
	outputDir := firstNonEmpty(opts.OutputDir, defaults.OutputDir, s.cfg.Output.Dir)

	// A stored model name only applies when it belongs to the chosen
	// provider; otherwise the provider's catalog default is used.
	modelName := strings.TrimSpace(opts.Model)
	if modelName == "" && defaults.Provider == provider {
		modelName = strings.TrimSpace(defaults.Model)
	}
	if modelName == "" && s.cfg.LLM.Provider == provider {
		modelName = strings.TrimSpace(s.cfg.LLM.Model)
	}

	req, err := book.NewRequest(opts.Topic, audience, tone, book.OutputFormat(format), opts.Requirements)
	if err != nil {
		return nil, err
	}

	sampling := client.SamplingConfig{
		Temperature: s.cfg.LLM.Temperature,
		TopP:        s.cfg.LLM.TopP,
		TopK:        s.cfg.LLM.TopK,
		MaxTokens:   s.cfg.LLM.MaxTokens,
		Streaming:   s.cfg.LLM.Streaming || opts.Streaming,
		BaseURL:     s.cfg.LLM.BaseURL,
		Timeout:     s.cfg.LLM.Timeout,
	}
	generator, modelInfo, err := s.clients.Build(ctx, provider, modelName, sampling)
	if err != nil {
		return nil, err
	}

	run := &models.BookRun{
		Key:          uuid.NewString(),
		Topic:        req.Topic,
		Audience:     req.Audience,
		Tone:         req.Tone,
		Format:       string(req.Format),
		Requirements: req.Requirements,
		Provider:     provider,
		Model:        modelInfo.APIName,
		Status:       models.RunStatusRunning,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.runs.Create(run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	writer := export.NewWriter(outputDir, s.cfg.Output.FallbackName)
	engineCfg := workflow.EngineConfig{
		Policy: workflow.RevisionPolicy{
			MaxOutlineRevisions: s.cfg.Workflow.MaxOutlineRevisions,
			MaxChapterRevisions: s.cfg.Workflow.MaxChapterRevisions,
			OnExhausted:         workflow.ExhaustionMode(s.cfg.Workflow.OnRevisionExhausted),
		},
		ReviewBackoff: s.cfg.Workflow.ReviewBackoff,
		Observer:      s.progressRecorder(run, opts.Observer),
	}
	engine, err := workflow.NewEngine(engineCfg, generator, s.registry, writer, &s.logger)
	if err != nil {
		s.finalizeRun(run, nil, err)
		return nil, err
	}

	return &preparedRun{run: run, engine: engine, req: req}, nil
}

func (s *bookRunService) runPrepared(ctx context.Context, prepared *preparedRun) (*models.BookRun, error) {
	runCtx := events.WithRun(ctx, prepared.run.Key)
	result, runErr := prepared.engine.Run(runCtx, prepared.req)
	s.finalizeRun(prepared.run, result, runErr)

	if runErr != nil {
		events.Emit(runCtx, events.RunDone, events.NewError("run", runErr.Error()))
	} else {
		events.Emit(runCtx, events.RunDone, events.NewSuccess("run", "Book exported to "+prepared.run.OutputPath))
	}
	return prepared.run, runErr
}

// loadDefaults returns the stored app settings, or zero values when the
// settings table is unavailable. Missing defaults are not fatal; the
// configuration layer still applies below them.
func (s *bookRunService) loadDefaults() models.AppSettings {
	if s.settings == nil {
		return models.AppSettings{}
	}
	stored, err := s.settings.Get()
	if err != nil || stored == nil {
		if err != nil {
			s.logger.Warn().Err(err).Msg("loading app settings; using configured defaults")
		}
		return models.AppSettings{}
	}
	return *stored
}

// progressRecorder persists chapter rows and the book title as the workflow
// advances, then forwards the step to the caller's observer. Persistence
// failures are logged and never interrupt the run.
func (s *bookRunService) progressRecorder(run *models.BookRun, next workflow.Observer) workflow.Observer {
	return func(step string, state *book.WorkflowState) {
		if state.Outline != nil {
			if run.Title != state.Outline.Title {
				run.Title = state.Outline.Title
				if err := s.runs.Update(run); err != nil {
					s.logger.Warn().Err(err).Str("run", run.Key).Msg("updating run title")
				}
			}
			forced := make(map[int]bool, len(state.ForcedChapters))
			for _, n := range state.ForcedChapters {
				forced[n] = true
			}
			for i := range state.Outline.Chapters {
				ch := &state.Outline.Chapters[i]
				rec := &models.ChapterRecord{
					BookRunID:     run.ID,
					Number:        ch.Number,
					Title:         ch.Title,
					Status:        string(ch.Status),
					RevisionCount: ch.RevisionCount,
					Forced:        forced[ch.Number],
					WordCount:     len(strings.Fields(ch.Content)),
				}
				if err := s.runs.UpsertChapter(rec); err != nil {
					s.logger.Warn().Err(err).Str("run", run.Key).Int("chapter", ch.Number).Msg("recording chapter progress")
				}
			}
		}
		if next != nil {
			next(step, state)
		}
	}
}

func (s *bookRunService) finalizeRun(run *models.BookRun, result *workflow.RunResult, runErr error) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = models.RunStatusCompleted
	}
	if result != nil && result.State != nil {
		state := result.State
		run.OutputPath = result.OutputPath
		run.OutlineRevisions = state.OutlineRevisions
		run.ForcedOutline = state.ForcedOutline
		if state.Outline != nil {
			run.Title = state.Outline.Title
		}
	}
	if err := s.runs.Update(run); err != nil {
		s.logger.Error().Err(err).Str("run", run.Key).Msg("recording run outcome")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
