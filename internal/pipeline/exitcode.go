package pipeline

import (
	"errors"

	"github.com/amishk599/coverletter/internal/model"
)

// Process exit codes, one per abort path.
const (
	ExitOK = iota
	ExitUsage
	ExitFetch
	ExitExtract
	ExitSummarize
	ExitMalformedSummary
	ExitRender
	ExitPlacement
	ExitReviewAborted
)

// ExitCode maps a Run error to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var malformed *model.MalformedSummaryError
	if errors.As(err, &malformed) {
		return ExitMalformedSummary
	}
	if errors.Is(err, model.ErrReviewAborted) {
		return ExitReviewAborted
	}

	var stageErr *model.StageError
	if !errors.As(err, &stageErr) {
		return ExitUsage
	}
	switch stageErr.Stage {
	case model.StageFetching:
		return ExitFetch
	case model.StageExtracting:
		return ExitExtract
	case model.StageSummarizing:
		return ExitSummarize
	case model.StageReviewing:
		return ExitReviewAborted
	case model.StageRendering:
		return ExitRender
	case model.StagePlacing:
		return ExitPlacement
	default:
		return ExitUsage
	}
}
