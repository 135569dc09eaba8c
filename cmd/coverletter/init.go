package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/amishk599/coverletter/internal/ai"
	"github.com/spf13/cobra"
)

var (
	initPromptPath string
	initForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default summarization prompt",
	Long:  "Writes the built-in prompt to prompt.txt so it can be tuned. Existing files are kept unless --force is given.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPromptPath, "prompt", "prompt.txt", "where to write the prompt")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing prompt file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(initPromptPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initPromptPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(initPromptPath, []byte(ai.DefaultPrompt), 0644); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initPromptPath)
	return nil
}
