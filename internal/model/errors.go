package model

import (
	"errors"
	"fmt"
	"time"
)

// Stage names a step of the cover letter pipeline.
type Stage string

const (
	StageFetching    Stage = "fetching"
	StageExtracting  Stage = "extracting"
	StageSummarizing Stage = "summarizing"
	StageReviewing   Stage = "reviewing"
	StageRendering   Stage = "rendering"
	StagePlacing     Stage = "placing"
	StageDone        Stage = "done"
)

// StageError is the Failed(stage, cause) state of a pipeline run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// FetchError reports a failed article download.
type FetchError struct {
	URL        string
	StatusCode int    // zero when the transport failed
	Status     string // status text, e.g. "404 Not Found"
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractionError reports a page readability could not make sense of.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract article from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("extract article from %s: no readable content", e.URL)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// SummarizationError reports a failed language model call.
type SummarizationError struct {
	Provider string
	Err      error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarize with %s: %v", e.Provider, e.Err)
}

func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// MalformedSummaryError reports a model response that is not exactly three non-empty lines.
type MalformedSummaryError struct {
	Lines int
	Raw   string
}

func (e *MalformedSummaryError) Error() string {
	return fmt.Sprintf("malformed summary: expected 3 non-empty lines, got %d", e.Lines)
}

// RenderError reports a compiler that could not be started or exited non-zero.
// Stdout and Stderr hold the toolchain output verbatim.
type RenderError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render with %s: %v", e.Command, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// PlacementError reports a failed copy into the downloads directory.
type PlacementError struct {
	Src string
	Dst string
	Err error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("place %s as %s: %v", e.Src, e.Dst, e.Err)
}

func (e *PlacementError) Unwrap() error {
	return e.Err
}

// CleanupWarning reports a build artifact that could not be removed. It is never fatal.
type CleanupWarning struct {
	Path string
	Err  error
}

func (e *CleanupWarning) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

func (e *CleanupWarning) Unwrap() error {
	return e.Err
}

// ErrReviewAborted is returned by a Reviewer when the user declines the fields.
var ErrReviewAborted = errors.New("review aborted by user")
