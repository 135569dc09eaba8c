package main

import (
	"fmt"
	"strings"

	"github.com/amishk599/coverletter/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List generated cover letters",
	Long:  "Reads the history database and prints the most recent letters, newest first.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of letters to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer sqlStore.Close()

	records, err := sqlStore.List(historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-17s %-25s %-30s %s\n", "Generated", "Company", "Post", "File")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, r := range records {
		fmt.Fprintf(out, "%-17s %-25s %-30s %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(r.CompanyName, 25),
			truncate(r.PostTitle, 30),
			r.PlacedPath,
		)
	}
	fmt.Fprintf(out, "\nTotal: %d letters\n", len(records))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
