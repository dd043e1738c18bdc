package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"akao-hq/akao/pkg/cli"
	"akao-hq/akao/pkg/history"
)

var historyFlags struct {
	dbPath    string
	limit     int
	olderThan time.Duration
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded validation runs",
	Long: `Query the validation run history database.

Examples:
  # Show the ten most recent runs
  akao history list

  # Drop runs older than thirty days
  akao history prune --older-than 720h`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runHistoryList,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete runs older than a cutoff",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.dbPath, "db", "", "history database path (default from settings)")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 10, "maximum runs to list (0 for all)")
	historyPruneCmd.Flags().DurationVar(&historyFlags.olderThan, "older-than", 720*time.Hour, "delete runs older than this duration")
}

func openHistoryStore() (history.Store, error) {
	settings, err := loadSettings(".")
	if err != nil {
		return nil, err
	}

	dbPath := historyFlags.dbPath
	if dbPath == "" {
		dbPath = settings.History.Path
	}

	store, err := history.NewSQLiteStore(history.SQLiteConfig{
		DBPath:       dbPath,
		MaxOpenConns: settings.History.MaxOpenConns,
		BusyTimeout:  settings.History.BusyTimeout,
	})
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	if len(runs) == 0 {
		fmt.Println("No validation runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTARGET\tFILES\tVIOLATIONS\tSCORE\tRESULT")
	for _, run := range runs {
		result := "FAILED"
		if run.IsValid {
			result = "PASSED"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			run.StartedAt.Format(time.RFC3339), run.Target,
			run.FilesAnalyzed, run.TotalViolations,
			run.ComplianceScore, result)
	}
	return w.Flush()
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cutoff := time.Now().Add(-historyFlags.olderThan)
	deleted, err := store.DeleteRunsBefore(cmd.Context(), cutoff)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	fmt.Printf("Deleted %d run(s) older than %s.\n", deleted, cutoff.Format(time.RFC3339))
	return nil
}
