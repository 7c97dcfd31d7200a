package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gapscan/internal/api"
	"gapscan/internal/config"
	"gapscan/internal/gap"
	"gapscan/internal/infrastructure/aio"
	"gapscan/internal/infrastructure/artifacts"
	"gapscan/internal/infrastructure/csvio"
	"gapscan/internal/infrastructure/llm"
	"gapscan/internal/infrastructure/scrape"
	"gapscan/internal/logging"
	"gapscan/internal/synth"
	"gapscan/internal/usecase"
)

// Application wires configuration to adapters and the analysis pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := artifacts.NewStore(cfg.Output.Dir, baseLogger.With("component", "artifacts"))
	if err != nil {
		return nil, err
	}

	oracle := llm.NewDeepSeekClient(cfg.Oracle, baseLogger.With("component", "oracle"))
	fetcher := scrape.NewFetcher(cfg.Fetcher, nil)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Keywords:    csvio.NewKeywordSource(),
		Dimensions:  aio.NewExtractor(),
		Content:     scrape.NewContentExtractor(fetcher),
		Synthesizer: synth.NewSynthesizer(oracle, baseLogger.With("component", "synthesizer")),
		Analyzer:    gap.NewScorer(oracle, cfg.Scoring, baseLogger.With("component", "scorer")),
		Artifacts:   store,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Pipeline exposes the analysis workflow to CLI commands.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Serve runs the HTTP API until the context is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	router := api.NewRouter(a.pipeline, a.logger.With("component", "api"))

	server := &http.Server{
		Addr:              a.cfg.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("api server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	}
}
