package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
prompt_path: ./prompts/cover.txt
downloads_dir: /tmp/letters
template:
  dir: ./tex
  main_file: letter.tex
  compiler: lualatex
  compiler_args: ["-interaction=nonstopmode"]
  escape_latex: true
llm:
  provider: openai
  model: gpt-4o
  api_key: sk-test
  timeout: 45s
  max_retries: 2
fetch:
  timeout: 10s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PromptPath != "./prompts/cover.txt" {
		t.Errorf("PromptPath = %q", cfg.PromptPath)
	}
	if cfg.DownloadsDir != "/tmp/letters" {
		t.Errorf("DownloadsDir = %q", cfg.DownloadsDir)
	}
	if cfg.Template.MainFile != "letter" {
		t.Errorf("MainFile = %q, want extension stripped", cfg.Template.MainFile)
	}
	if cfg.Template.Compiler != "lualatex" || len(cfg.Template.CompilerArgs) != 1 {
		t.Errorf("Template = %+v", cfg.Template)
	}
	if !cfg.Template.EscapeLaTeX {
		t.Error("EscapeLaTeX = false, want true")
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("LLM.Timeout = %v, want 45s", cfg.LLM.Timeout)
	}
	if cfg.LLM.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.LLM.MaxRetries)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
}

func TestDefault_MatchesScriptLayout(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.PromptPath != "./prompt.txt" {
		t.Errorf("PromptPath = %q", cfg.PromptPath)
	}
	if cfg.Template.Dir != "./cover-letter-template/" || cfg.Template.MainFile != "cover_letter" || cfg.Template.ArgsFile != "args.tex" {
		t.Errorf("Template = %+v", cfg.Template)
	}
	if cfg.Template.Compiler != "xelatex" {
		t.Errorf("Compiler = %q, want xelatex", cfg.Template.Compiler)
	}
	if cfg.LLM.Provider != ProviderOpenAI || cfg.LLM.Model != "gpt-4" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want value from OPENAI_API_KEY", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != defaultOpenAIBaseURL {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.LLM.MaxRetries)
	}
	if want := filepath.Join(home, "Downloads"); cfg.DownloadsDir != want {
		t.Errorf("DownloadsDir = %q, want %q", cfg.DownloadsDir, want)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("MY_KEY", "sk-expanded")
	cfg, err := Parse([]byte("llm:\n  api_key: ${MY_KEY}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LLM.APIKey != "sk-expanded" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
}

func TestParse_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := Parse(nil)
	if err == nil {
		t.Fatal("Parse: expected error when no API key is available")
	}
}

func TestParse_AnthropicReadsItsOwnEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "ak-env")
	cfg, err := Parse([]byte("llm:\n  provider: anthropic\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LLM.APIKey != "ak-env" || cfg.LLM.BaseURL != defaultAnthropicBaseURL {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
}

func TestParse_VertexRequiresProject(t *testing.T) {
	_, err := Parse([]byte("llm:\n  provider: vertex\n"))
	if err == nil {
		t.Fatal("Parse: expected error when vertex project is missing")
	}

	cfg, err := Parse([]byte("llm:\n  provider: vertex\n  project: p\n  location: us-central1\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LLM.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
}

func TestParse_UnknownProvider(t *testing.T) {
	_, err := Parse([]byte("llm:\n  provider: magic\n  api_key: x\n"))
	if err == nil {
		t.Fatal("Parse: expected error for unknown provider")
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk")
	_, err := Parse([]byte("fetch:\n  timeout: soon\n"))
	if err == nil {
		t.Fatal("Parse: expected error for invalid duration")
	}
}

func TestParse_SlackWebhookValidated(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk")
	_, err := Parse([]byte("notification:\n  type: slack\n  webhook_url: https://example.com/hook\n"))
	if err == nil {
		t.Fatal("Parse: expected error for non-slack webhook URL")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("template: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}
