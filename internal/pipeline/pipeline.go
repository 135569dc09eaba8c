package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/coverletter/internal/model"
)

// Stages holds the collaborators of a run. Reviewer, Store, Notifier and
// Archiver are optional.
type Stages struct {
	Fetcher    model.ContentFetcher
	Extractor  model.ArticleExtractor
	Summarizer model.Summarizer
	Reviewer   model.Reviewer
	Renderer   model.Renderer
	Placer     model.Placer
	Store      model.HistoryStore
	Notifier   model.Notifier
	Archiver   model.Archiver
}

// Result is everything a successful run produced.
type Result struct {
	Article  model.ArticleContent
	Fields   model.SummaryFields
	Document model.RenderedDocument
	Placed   model.PlacedFile
}

// Pipeline owns one cover letter run:
// fetch → extract → summarize → review → render → place → cleanup.
type Pipeline struct {
	stages Stages
	logger *slog.Logger
}

// New creates a pipeline wired with its stages.
func New(stages Stages, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		stages: stages,
		logger: logger,
	}
}

// Run executes every stage for url. Any failure is returned as a
// *model.StageError naming the stage. Run returns only after the compiler has
// exited and placement and cleanup have finished.
func (p *Pipeline) Run(ctx context.Context, url string) (Result, error) {
	var res Result
	start := time.Now()
	logger := p.logger.With("url", url)

	p.warnIfGenerated(logger, url)

	logger.Info("fetching article", "stage", model.StageFetching)
	html, err := p.stages.Fetcher.Fetch(ctx, url)
	if err != nil {
		return res, fail(model.StageFetching, err)
	}

	logger.Info("extracting article", "stage", model.StageExtracting, "html_bytes", len(html))
	res.Article, err = p.stages.Extractor.Extract(html, url)
	if err != nil {
		return res, fail(model.StageExtracting, err)
	}

	logger.Info("summarizing article", "stage", model.StageSummarizing, "title", res.Article.Title)
	res.Fields, err = p.stages.Summarizer.Summarize(ctx, res.Article)
	if err != nil {
		return res, fail(model.StageSummarizing, err)
	}
	logger.Info("summary parsed",
		"company", res.Fields.CompanyName,
		"post_title", res.Fields.PostTitle,
	)

	if p.stages.Reviewer != nil {
		logger.Info("reviewing summary", "stage", model.StageReviewing)
		res.Fields, err = p.stages.Reviewer.Review(ctx, res.Fields)
		if err != nil {
			return res, fail(model.StageReviewing, err)
		}
	}

	logger.Info("rendering document", "stage", model.StageRendering)
	res.Document, err = p.stages.Renderer.Render(ctx, res.Fields)
	if err != nil {
		// Nothing to place or clean up.
		return res, fail(model.StageRendering, err)
	}

	logger.Info("placing document", "stage", model.StagePlacing, "pdf", res.Document.PDFPath)
	res.Placed, err = p.stages.Placer.Place(res.Document.PDFPath, res.Fields.CompanyName)
	if cerr := p.stages.Placer.Cleanup(res.Document.Dir, res.Document.BaseName); cerr != nil {
		logger.Warn("cleanup incomplete", "error", cerr)
	}
	if err != nil {
		return res, fail(model.StagePlacing, err)
	}

	p.finish(ctx, logger, url, res)

	logger.Info("cover letter generated",
		"stage", model.StageDone,
		"path", res.Placed.Path,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// warnIfGenerated logs when url already produced a letter. History problems
// never block a run.
func (p *Pipeline) warnIfGenerated(logger *slog.Logger, url string) {
	if p.stages.Store == nil {
		return
	}
	done, err := p.stages.Store.HasGenerated(url)
	if err != nil {
		logger.Warn("history lookup failed", "error", err)
		return
	}
	if done {
		logger.Warn("a letter was already generated for this URL")
	}
}

// finish records, announces and archives a placed letter. These are
// supplementary; failures are logged only.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, url string, res Result) {
	rec := model.Record{
		URL:         url,
		CompanyName: res.Fields.CompanyName,
		PostTitle:   res.Fields.PostTitle,
		PlacedPath:  res.Placed.Path,
		CreatedAt:   time.Now(),
	}

	if p.stages.Store != nil {
		if err := p.stages.Store.Record(rec); err != nil {
			logger.Warn("failed to record history", "error", err)
		}
	}
	if p.stages.Archiver != nil {
		if err := p.stages.Archiver.Archive(ctx, res.Placed); err != nil {
			logger.Warn("failed to archive letter", "error", err)
		}
	}
	if p.stages.Notifier != nil {
		if err := p.stages.Notifier.Notify(ctx, rec); err != nil {
			logger.Warn("failed to send notification", "error", err)
		}
	}
}

func fail(stage model.Stage, err error) error {
	return &model.StageError{Stage: stage, Err: err}
}
