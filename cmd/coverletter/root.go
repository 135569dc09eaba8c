package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/amishk599/coverletter/internal/ai"
	"github.com/amishk599/coverletter/internal/config"
	"github.com/amishk599/coverletter/internal/model"
	"github.com/amishk599/coverletter/internal/notifier"
	"github.com/amishk599/coverletter/internal/retry"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var (
	cfgPath      string
	debug        bool
	reviewFields bool
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "coverletter <url>",
	Short: "Turn a job posting into a tailored cover letter PDF",
	Long: "coverletter fetches a job posting, asks a language model for the company name, " +
		"post title and a reason for interest, renders them into a LaTeX template and " +
		"copies the PDF into your downloads folder.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: COVERLETTER_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&reviewFields, "review", false, "review and edit the summary before rendering")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate the letter without writing history")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > COVERLETTER_CONFIG env var > "./config.yaml".
// A missing ./config.yaml falls back to the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("COVERLETTER_CONFIG")
	}
	if path != "" {
		return config.Load(path)
	}

	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return cfg, err
}

// setupLogger writes to stderr so stdout only carries command output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupProvider builds the configured language model client. The returned
// close func releases provider resources and is always non-nil.
func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.LLMProvider, func(), error) {
	closeFn := func() {}
	httpClient := &http.Client{Timeout: cfg.LLM.Timeout}

	var provider ai.LLMProvider
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		provider = ai.NewOpenAIProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient)
	case config.ProviderAnthropic:
		provider = ai.NewAnthropicProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient)
	case config.ProviderVertex:
		vp, err := ai.NewVertexProvider(ctx, cfg.LLM.Project, cfg.LLM.Location, cfg.LLM.Model)
		if err != nil {
			return nil, closeFn, fmt.Errorf("create vertex provider: %w", err)
		}
		provider = vp
		closeFn = func() {
			if err := vp.Close(); err != nil {
				logger.Warn("failed to close vertex client", "error", err)
			}
		}
	default:
		return nil, closeFn, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}

	if cfg.LLM.MaxRetries > 0 {
		provider = retry.NewRetryProvider(provider, cfg.LLM.MaxRetries, cfg.LLM.RetryDelay, logger)
	}

	logger.Debug("llm provider configured",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"max_retries", cfg.LLM.MaxRetries,
		"timeout", cfg.LLM.Timeout.String(),
	)
	return provider, closeFn, nil
}

func newFetchClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Fetch.Timeout}
}

const notifyTimeout = 30 * time.Second
