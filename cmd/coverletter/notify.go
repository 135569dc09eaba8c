package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/coverletter/internal/notifier"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a test notification using the configured notifier.",
	Args:  cobra.NoArgs,
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	n := setupNotifier(cfg, &http.Client{Timeout: notifyTimeout}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := notifier.SendTestMessage(ctx, n); err != nil {
		return fmt.Errorf("test notification failed: %w", err)
	}
	logger.Info("test notification sent successfully")
	return nil
}
