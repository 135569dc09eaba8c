package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a cover letter run.
type Config struct {
	PromptPath   string
	DownloadsDir string
	Template     TemplateConfig
	Fetch        FetchConfig
	LLM          LLMConfig
	Store        StoreConfig
	Notification NotificationConfig
	Archive      ArchiveConfig
}

// TemplateConfig describes the LaTeX project the fields are injected into.
type TemplateConfig struct {
	Dir          string   // template directory, compiler working directory
	MainFile     string   // main template name without extension
	ArgsFile     string   // file the \companyname etc. macros are written to
	Compiler     string   // compiler binary looked up on PATH
	CompilerArgs []string // extra arguments placed before the .tex file
	EscapeLaTeX  bool     // escape LaTeX specials in model output
	Timeout      time.Duration
}

// FetchConfig controls the article download.
type FetchConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	Provider   string // "openai", "anthropic" or "vertex"
	BaseURL    string
	Model      string
	APIKey     string        // expanded from env var by Load
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // zero disables retries
	RetryDelay time.Duration
	Project    string // vertex only
	Location   string // vertex only
}

// StoreConfig controls the history database.
type StoreConfig struct {
	Path string
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ArchiveConfig enables uploading placed letters to Cloud Storage.
type ArchiveConfig struct {
	GCSBucket string `yaml:"gcs_bucket"`
	Prefix    string `yaml:"prefix"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderVertex    = "vertex"
)

const (
	defaultOpenAIBaseURL    = "https://api.openai.com/v1"
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	defaultUserAgent        = "Mozilla/5.0 (compatible; coverletter/1.0)"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4",
	ProviderAnthropic: "claude-3-5-sonnet-latest",
	ProviderVertex:    "gemini-1.5-pro",
}

var apiKeyEnv = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	PromptPath   string             `yaml:"prompt_path"`
	DownloadsDir string             `yaml:"downloads_dir"`
	Template     rawTemplateConfig  `yaml:"template"`
	Fetch        rawFetchConfig     `yaml:"fetch"`
	LLM          rawLLMConfig       `yaml:"llm"`
	Store        StoreConfig        `yaml:"store"`
	Notification NotificationConfig `yaml:"notification"`
	Archive      ArchiveConfig      `yaml:"archive"`
}

type rawTemplateConfig struct {
	Dir          string   `yaml:"dir"`
	MainFile     string   `yaml:"main_file"`
	ArgsFile     string   `yaml:"args_file"`
	Compiler     string   `yaml:"compiler"`
	CompilerArgs []string `yaml:"compiler_args"`
	EscapeLaTeX  bool     `yaml:"escape_latex"`
	Timeout      string   `yaml:"timeout"`
}

type rawFetchConfig struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type rawLLMConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
	RetryDelay string `yaml:"retry_delay"`
	Project    string `yaml:"project"`
	Location   string `yaml:"location"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Default returns the configuration used when no config file exists:
// ./prompt.txt, ./cover-letter-template/cover_letter.tex, xelatex, gpt-4 and
// ~/Downloads, with the API key taken from the environment.
func Default() (*Config, error) {
	return Parse(nil)
}

// Parse builds a validated Config from YAML bytes. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	fetchTimeout, err := parseDuration("fetch.timeout", raw.Fetch.Timeout, 30*time.Second)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("llm.timeout", raw.LLM.Timeout, 2*time.Minute)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("llm.retry_delay", raw.LLM.RetryDelay, 5*time.Second)
	if err != nil {
		return nil, err
	}
	compileTimeout, err := parseDuration("template.timeout", raw.Template.Timeout, 2*time.Minute)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(orDefault(raw.LLM.Provider, ProviderOpenAI))

	baseURL := raw.LLM.BaseURL
	if baseURL == "" {
		switch provider {
		case ProviderOpenAI:
			baseURL = defaultOpenAIBaseURL
		case ProviderAnthropic:
			baseURL = defaultAnthropicBaseURL
		}
	}

	apiKey := raw.LLM.APIKey
	if apiKey == "" {
		if env, ok := apiKeyEnv[provider]; ok {
			apiKey = os.Getenv(env)
		}
	}

	downloads := raw.DownloadsDir
	if downloads == "" {
		downloads = "~/Downloads"
	}
	downloads, err = expandHome(downloads)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PromptPath:   orDefault(raw.PromptPath, "./prompt.txt"),
		DownloadsDir: downloads,
		Template: TemplateConfig{
			Dir:          orDefault(raw.Template.Dir, "./cover-letter-template/"),
			MainFile:     strings.TrimSuffix(orDefault(raw.Template.MainFile, "cover_letter"), ".tex"),
			ArgsFile:     orDefault(raw.Template.ArgsFile, "args.tex"),
			Compiler:     orDefault(raw.Template.Compiler, "xelatex"),
			CompilerArgs: raw.Template.CompilerArgs,
			EscapeLaTeX:  raw.Template.EscapeLaTeX,
			Timeout:      compileTimeout,
		},
		Fetch: FetchConfig{
			Timeout:   fetchTimeout,
			UserAgent: orDefault(raw.Fetch.UserAgent, defaultUserAgent),
		},
		LLM: LLMConfig{
			Provider:   provider,
			BaseURL:    strings.TrimRight(baseURL, "/"),
			Model:      orDefault(raw.LLM.Model, defaultModels[provider]),
			APIKey:     apiKey,
			Timeout:    llmTimeout,
			MaxRetries: raw.LLM.MaxRetries,
			RetryDelay: retryDelay,
			Project:    raw.LLM.Project,
			Location:   raw.LLM.Location,
		},
		Store: StoreConfig{
			Path: orDefault(raw.Store.Path, "coverletter.db"),
		},
		Notification: raw.Notification,
		Archive:      raw.Archive,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q (or set %s)", cfg.LLM.Provider, apiKeyEnv[cfg.LLM.Provider])
		}
	case ProviderVertex:
		if cfg.LLM.Project == "" || cfg.LLM.Location == "" {
			return fmt.Errorf("llm.project and llm.location are required for provider \"vertex\"")
		}
	default:
		return fmt.Errorf("unsupported llm.provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative, got %d", cfg.LLM.MaxRetries)
	}

	if cfg.Template.MainFile == "" || strings.ContainsAny(cfg.Template.MainFile, `/\`) {
		return fmt.Errorf("template.main_file must be a bare file name, got %q", cfg.Template.MainFile)
	}
	if cfg.Template.ArgsFile == "" || strings.ContainsAny(cfg.Template.ArgsFile, `/\`) {
		return fmt.Errorf("template.args_file must be a bare file name, got %q", cfg.Template.ArgsFile)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
