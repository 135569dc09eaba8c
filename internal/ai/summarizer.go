package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure LLMSummarizer implements model.Summarizer.
var _ model.Summarizer = (*LLMSummarizer)(nil)

// LLMSummarizer asks a language model for the company name, post title and
// reason-for-interest of a job posting.
type LLMSummarizer struct {
	provider     LLMProvider
	providerName string
	promptPath   string
	logger       *slog.Logger
}

// NewLLMSummarizer creates a summarizer that reads its instruction from promptPath on each call.
func NewLLMSummarizer(provider LLMProvider, providerName, promptPath string, logger *slog.Logger) *LLMSummarizer {
	return &LLMSummarizer{
		provider:     provider,
		providerName: providerName,
		promptPath:   promptPath,
		logger:       logger,
	}
}

// Summarize sends the prompt as the system message and prompt, title and
// content joined by newlines as the user message, then parses the reply.
func (s *LLMSummarizer) Summarize(ctx context.Context, article model.ArticleContent) (model.SummaryFields, error) {
	prompt, err := os.ReadFile(s.promptPath)
	if err != nil {
		return model.SummaryFields{}, fmt.Errorf("read prompt: %w", err)
	}

	user := BuildUserMessage(string(prompt), article)

	s.logger.Debug("requesting summary",
		"provider", s.providerName,
		"title", article.Title,
		"content_bytes", len(article.Content),
	)

	raw, err := s.provider.Complete(ctx, string(prompt), user)
	if err != nil {
		return model.SummaryFields{}, &model.SummarizationError{Provider: s.providerName, Err: err}
	}

	s.logger.Debug("summary received", "response", raw)

	return ParseSummary(raw)
}

// BuildUserMessage concatenates prompt, title and content with newline separators.
func BuildUserMessage(prompt string, article model.ArticleContent) string {
	return prompt + "\n" + article.Title + "\n" + article.Content
}

// ParseSummary splits a model reply into SummaryFields. The reply must hold
// exactly three non-empty lines in company, title, reason order; blank lines
// and surrounding whitespace are ignored.
func ParseSummary(raw string) (model.SummaryFields, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) != 3 {
		return model.SummaryFields{}, &model.MalformedSummaryError{Lines: len(lines), Raw: raw}
	}

	return model.SummaryFields{
		CompanyName: lines[0],
		PostTitle:   lines[1],
		Reason:      lines[2],
	}, nil
}
