package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/coverletter/internal/ai"
	"github.com/amishk599/coverletter/internal/archive"
	"github.com/amishk599/coverletter/internal/config"
	"github.com/amishk599/coverletter/internal/extract"
	"github.com/amishk599/coverletter/internal/fetch"
	"github.com/amishk599/coverletter/internal/model"
	"github.com/amishk599/coverletter/internal/pipeline"
	"github.com/amishk599/coverletter/internal/place"
	"github.com/amishk599/coverletter/internal/render"
	"github.com/amishk599/coverletter/internal/review"
	"github.com/amishk599/coverletter/internal/store"
	"github.com/spf13/cobra"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stages, closeAll, err := buildStages(ctx, cfg, logger)
	defer closeAll()
	if err != nil {
		return err
	}

	res, err := pipeline.New(stages, logger).Run(ctx, args[0])
	if err != nil {
		reportFailure(logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), err)
		return &reportedError{err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Placed.Path)
	return nil
}

// buildStages wires every pipeline collaborator from cfg. The returned close
// func is always non-nil and releases whatever was opened, even on error.
func buildStages(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Stages, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	provider, closeProvider, err := setupProvider(ctx, cfg, logger)
	closers = append(closers, closeProvider)
	if err != nil {
		return pipeline.Stages{}, closeAll, err
	}

	var summarizer model.Summarizer = ai.NewLLMSummarizer(provider, cfg.LLM.Provider, cfg.PromptPath, logger)

	stages := pipeline.Stages{
		Fetcher:    fetch.NewHTTPFetcher(newFetchClient(cfg), cfg.Fetch.UserAgent),
		Extractor:  extract.NewReadabilityExtractor(),
		Summarizer: summarizer,
		Renderer: render.NewLaTeXRenderer(cfg.Template.Dir, cfg.Template.MainFile, logger,
			render.WithCompiler(cfg.Template.Compiler, cfg.Template.CompilerArgs...),
			render.WithArgsFile(cfg.Template.ArgsFile),
			render.WithEscaping(cfg.Template.EscapeLaTeX),
			render.WithTimeout(cfg.Template.Timeout),
		),
		Placer:   place.NewFilePlacer(cfg.DownloadsDir, logger),
		Notifier: setupNotifier(cfg, &http.Client{Timeout: notifyTimeout}, logger),
	}

	if reviewFields {
		stages.Summarizer = review.NewSpinnerSummarizer(summarizer, os.Stdin, os.Stderr)
		stages.Reviewer = review.NewTUIReviewer(os.Stdin, os.Stderr)
	}

	// In dry-run mode, use a NopStore so nothing is persisted.
	if dryRun {
		logger.Info("dry-run mode enabled, history will not be written")
		stages.Store = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			// History is a convenience; a broken database must not block a letter.
			logger.Warn("history disabled", "path", cfg.Store.Path, "error", err)
		} else {
			closers = append(closers, func() { sqlStore.Close() })
			stages.Store = sqlStore
		}
	}

	if cfg.Archive.GCSBucket != "" && !dryRun {
		archiver, err := archive.NewGCSArchiver(ctx, cfg.Archive.GCSBucket, cfg.Archive.Prefix, logger)
		if err != nil {
			logger.Warn("archive disabled", "bucket", cfg.Archive.GCSBucket, "error", err)
		} else {
			closers = append(closers, func() { archiver.Close() })
			stages.Archiver = archiver
		}
	}

	return stages, closeAll, nil
}

// reportFailure logs a failed run. Compiler output is copied verbatim so
// LaTeX errors can be read as the compiler printed them.
func reportFailure(logger *slog.Logger, stdout, stderr io.Writer, err error) {
	var renderErr *model.RenderError
	if errors.As(err, &renderErr) {
		if renderErr.Stdout != "" {
			fmt.Fprint(stdout, renderErr.Stdout)
		}
		if renderErr.Stderr != "" {
			fmt.Fprint(stderr, renderErr.Stderr)
		}
	}

	var malformed *model.MalformedSummaryError
	if errors.As(err, &malformed) {
		logger.Debug("raw model reply", "reply", malformed.Raw)
	}

	logger.Error("cover letter generation failed",
		"error", err,
		"exit_code", pipeline.ExitCode(err),
	)
}
