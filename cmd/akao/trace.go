package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"akao-hq/akao/pkg/cli"
	"akao-hq/akao/pkg/trace"
)

var traceFlags struct {
	dir    string
	output string
	format string
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Inspect persisted violation traces",
	Long: `Work with the violation traces a validation pass persisted under the
tracing output directory (.akao_traces by default).

Examples:
  # Summarize persisted traces
  akao trace summary

  # Re-export every trace as CSV
  akao trace export --format csv --output traces.csv`,
}

var traceSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize persisted traces by severity, rule, and file",
	RunE:  runTraceSummary,
}

var traceExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted traces to a single file",
	RunE:  runTraceExport,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.AddCommand(traceSummaryCmd, traceExportCmd)

	traceCmd.PersistentFlags().StringVar(&traceFlags.dir, "dir", "", "trace directory (default from settings)")
	traceExportCmd.Flags().StringVar(&traceFlags.output, "output", "traces.yaml", "output file path")
	traceExportCmd.Flags().StringVar(&traceFlags.format, "format", "yaml", "export format: yaml, csv")
}

func traceDirectory() (string, error) {
	if traceFlags.dir != "" {
		return traceFlags.dir, nil
	}
	settings, err := loadSettings(".")
	if err != nil {
		return "", err
	}
	return settings.Tracing.OutputDirectory, nil
}

func runTraceSummary(cmd *cobra.Command, args []string) error {
	dir, err := traceDirectory()
	if err != nil {
		return err
	}

	traces, err := trace.LoadDirectory(dir)
	if err != nil {
		return cli.NewCommandError("trace", err)
	}
	if len(traces) == 0 {
		fmt.Printf("No traces found under %s.\n", dir)
		return nil
	}

	bySeverity := make(map[string]int)
	byRule := make(map[string]int)
	files := make(map[string]bool)
	for _, tr := range traces {
		bySeverity[tr.ViolationSeverity]++
		byRule[tr.RuleID]++
		files[tr.FilePath] = true
	}

	fmt.Printf("Traces: %d (across %d files)\n\n", len(traces), len(files))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tCOUNT")
	for _, severity := range sortedKeys(bySeverity) {
		fmt.Fprintf(w, "%s\t%d\n", severity, bySeverity[severity])
	}
	fmt.Fprintln(w, "\nRULE\tCOUNT")
	for _, ruleID := range sortedKeys(byRule) {
		fmt.Fprintf(w, "%s\t%d\n", ruleID, byRule[ruleID])
	}
	return w.Flush()
}

func runTraceExport(cmd *cobra.Command, args []string) error {
	dir, err := traceDirectory()
	if err != nil {
		return err
	}

	traces, err := trace.LoadDirectory(dir)
	if err != nil {
		return cli.NewCommandError("trace", err)
	}
	if len(traces) == 0 {
		fmt.Printf("No traces found under %s.\n", dir)
		return nil
	}

	if err := trace.WriteTraces(traceFlags.output, traceFlags.format, traces); err != nil {
		return cli.NewCommandError("trace", err)
	}
	fmt.Printf("Exported %d trace(s) to %s.\n", len(traces), traceFlags.output)
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
