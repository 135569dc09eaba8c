package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure LaTeXRenderer implements model.Renderer.
var _ model.Renderer = (*LaTeXRenderer)(nil)

// LaTeXRenderer injects summary fields into a LaTeX project and compiles it.
type LaTeXRenderer struct {
	dir          string
	mainFile     string
	argsFile     string
	compiler     string
	compilerArgs []string
	escape       bool
	timeout      time.Duration
	pageCount    func(path string) (int, error)
	logger       *slog.Logger
}

// Option configures a LaTeXRenderer.
type Option func(*LaTeXRenderer)

// WithCompiler sets the compiler binary and the arguments placed before the .tex file.
func WithCompiler(compiler string, args ...string) Option {
	return func(r *LaTeXRenderer) {
		r.compiler = compiler
		r.compilerArgs = args
	}
}

// WithArgsFile sets the name of the file the macros are written to.
func WithArgsFile(name string) Option {
	return func(r *LaTeXRenderer) {
		r.argsFile = name
	}
}

// WithEscaping escapes LaTeX specials in the injected fields.
func WithEscaping(escape bool) Option {
	return func(r *LaTeXRenderer) {
		r.escape = escape
	}
}

// WithTimeout bounds a single compiler run.
func WithTimeout(d time.Duration) Option {
	return func(r *LaTeXRenderer) {
		r.timeout = d
	}
}

// WithPageCounter replaces the PDF validator.
func WithPageCounter(fn func(path string) (int, error)) Option {
	return func(r *LaTeXRenderer) {
		r.pageCount = fn
	}
}

// NewLaTeXRenderer creates a renderer for the template {dir}/{mainFile}.tex.
// Defaults: xelatex, args.tex, no escaping, two minute timeout.
func NewLaTeXRenderer(dir, mainFile string, logger *slog.Logger, opts ...Option) *LaTeXRenderer {
	r := &LaTeXRenderer{
		dir:       dir,
		mainFile:  mainFile,
		argsFile:  "args.tex",
		compiler:  "xelatex",
		timeout:   2 * time.Minute,
		pageCount: PageCount,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the args file, runs the compiler in the template directory
// and waits for it to exit. The compiled PDF is validated before returning.
func (r *LaTeXRenderer) Render(ctx context.Context, fields model.SummaryFields) (model.RenderedDocument, error) {
	argsPath := filepath.Join(r.dir, r.argsFile)
	if err := os.WriteFile(argsPath, []byte(ArgsContent(fields, r.escape)), 0644); err != nil {
		return model.RenderedDocument{}, &model.RenderError{Command: r.compiler, Err: fmt.Errorf("write %s: %w", argsPath, err)}
	}
	r.logger.Debug("wrote template arguments", "path", argsPath)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, r.compilerArgs...), r.mainFile+".tex")
	cmd := exec.CommandContext(ctx, r.compiler, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	command := r.compiler + " " + strings.Join(args, " ")
	r.logger.Info("compiling document", "command", command, "dir", r.dir)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return model.RenderedDocument{}, &model.RenderError{
			Command: command,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	doc := model.RenderedDocument{
		Dir:      r.dir,
		BaseName: r.mainFile,
		PDFPath:  filepath.Join(r.dir, r.mainFile+".pdf"),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	r.logger.Debug("compiler output", "stdout", doc.Stdout, "stderr", doc.Stderr)

	pages, err := r.pageCount(doc.PDFPath)
	if err != nil {
		return model.RenderedDocument{}, &model.RenderError{
			Command: command,
			Stdout:  doc.Stdout,
			Stderr:  doc.Stderr,
			Err:     fmt.Errorf("validate %s: %w", doc.PDFPath, err),
		}
	}
	doc.Pages = pages

	r.logger.Info("document compiled", "pdf", doc.PDFPath, "pages", pages, "duration", time.Since(start).Round(time.Millisecond))
	return doc, nil
}

// PageCount opens a PDF with pdfcpu and returns its page count.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
