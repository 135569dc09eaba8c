package model

import (
	"context"
	"time"
)

// ArticleContent is the readable part of a fetched job posting.
type ArticleContent struct {
	URL     string // source URL, kept for logging
	Title   string // article title
	Content string // HTML fragment produced by readability
}

// SummaryFields is the ordered triple injected into the LaTeX template.
type SummaryFields struct {
	CompanyName string
	PostTitle   string
	Reason      string
}

// RenderedDocument describes a compiled PDF and the build directory it lives in.
type RenderedDocument struct {
	Dir      string // template directory the compiler ran in
	BaseName string // main template name without extension, e.g. "cover_letter"
	PDFPath  string // {Dir}/{BaseName}.pdf
	Stdout   string // compiler standard output
	Stderr   string // compiler standard error
	Pages    int    // page count reported by the PDF validator
}

// PlacedFile is the final copy of the PDF in the downloads directory.
type PlacedFile struct {
	Path     string
	Replaced bool // an existing file at Path was overwritten
}

// Record is one generated letter as stored in the history database.
type Record struct {
	URL         string
	CompanyName string
	PostTitle   string
	PlacedPath  string
	CreatedAt   time.Time
}

// ContentFetcher retrieves the raw HTML of a page.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ArticleExtractor reduces raw HTML to title and content.
type ArticleExtractor interface {
	Extract(html, pageURL string) (ArticleContent, error)
}

// Summarizer turns an article into the three template fields.
type Summarizer interface {
	Summarize(ctx context.Context, article ArticleContent) (SummaryFields, error)
}

// Reviewer lets the user inspect and edit fields before rendering.
// Returning an error aborts the run.
type Reviewer interface {
	Review(ctx context.Context, fields SummaryFields) (SummaryFields, error)
}

// Renderer writes the template arguments and compiles the PDF. Render must
// not return until the compiler has exited.
type Renderer interface {
	Render(ctx context.Context, fields SummaryFields) (RenderedDocument, error)
}

// Placer copies the compiled PDF to its destination and removes build artifacts.
type Placer interface {
	Place(pdfPath, companyName string) (PlacedFile, error)
	Cleanup(dir, baseName string) error
}

// HistoryStore records generated letters.
type HistoryStore interface {
	HasGenerated(url string) (bool, error)
	Record(rec Record) error
	List(limit int) ([]Record, error)
}

// Notifier announces a generated letter.
type Notifier interface {
	Notify(ctx context.Context, rec Record) error
}

// Archiver keeps an extra copy of a placed letter somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, placed PlacedFile) error
}
