package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the environment can produce a letter",
	Long:  "Checks the config, the LaTeX compiler on PATH, the template and prompt files, and the downloads directory. Makes no network calls.",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Info("config ok",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"template_dir", cfg.Template.Dir,
	)

	failed := 0
	check := func(name string, err error, attrs ...any) {
		if err != nil {
			failed++
			logger.Error(name+" missing", append(attrs, "error", err)...)
			return
		}
		logger.Info(name+" ok", attrs...)
	}

	compilerPath, err := exec.LookPath(cfg.Template.Compiler)
	check("compiler", err, "compiler", cfg.Template.Compiler, "path", compilerPath)

	mainTex := filepath.Join(cfg.Template.Dir, cfg.Template.MainFile+".tex")
	check("template", statFile(mainTex), "path", mainTex)

	check("prompt", statFile(cfg.PromptPath), "path", cfg.PromptPath)

	check("downloads dir", statDir(cfg.DownloadsDir), "path", cfg.DownloadsDir)

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	logger.Info("check complete")
	return nil
}

func statFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func statDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
