package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingDefaultFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COVERLETTER_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Template.Compiler != "xelatex" {
		t.Errorf("Compiler = %q, want xelatex", cfg.Template.Compiler)
	}
}

func TestLoadConfig_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cl.yaml")
	if err := os.WriteFile(path, []byte("llm:\n  api_key: sk-env\n  model: gpt-4o\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COVERLETTER_CONFIG", path)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.LLM.Model)
	}
}

func TestLoadConfig_ExplicitMissingPathFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestInit_WritesPromptOnce(t *testing.T) {
	dir := t.TempDir()
	initPromptPath = filepath.Join(dir, "prompt.txt")
	initForce = false
	t.Cleanup(func() { initPromptPath = "prompt.txt" })

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("first init: %v", err)
	}
	data, err := os.ReadFile(initPromptPath)
	if err != nil || len(data) == 0 {
		t.Fatalf("prompt not written: %v", err)
	}
	if err := runInit(initCmd, nil); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}
