package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"akao-hq/akao/pkg/cli"
	"akao-hq/akao/pkg/rule"
)

var rulesFlags struct {
	dir      string
	category string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and manage rule definitions",
	Long: `List the available rules and move them between the enabled and
disabled sets. Enabling or disabling a rule relocates its definition
file between the rules directory's enabled/ and disabled/ subtrees.

Examples:
  # List every rule with its state
  akao rules list

  # List one category
  akao rules list --category naming

  # Enable a rule for future validation passes
  akao rules enable akao:rule::naming:files:v1`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available rules",
	RunE:  runRulesList,
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable <rule-id>",
	Short: "Enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveRule(args[0], true)
	},
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable <rule-id>",
	Short: "Disable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moveRule(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesEnableCmd, rulesDisableCmd)

	rulesCmd.PersistentFlags().StringVar(&rulesFlags.dir, "rules", "", "rules directory (default from settings)")
	rulesListCmd.Flags().StringVar(&rulesFlags.category, "category", "", "only list rules in this category")
}

// openRepository loads the rule repository for the current directory's
// settings, returning the resolved rules directory alongside it.
func openRepository() (*rule.Repository, string, error) {
	settings, err := loadSettings(".")
	if err != nil {
		return nil, "", err
	}
	logger, err := newLogger(settings)
	if err != nil {
		return nil, "", err
	}

	rulesDir := rulesFlags.dir
	if rulesDir == "" {
		rulesDir = settings.RulesDirectory
	}

	repo := rule.NewRepository(logger.Slog())
	if _, err := repo.Scan(rulesDir); err != nil {
		return nil, "", cli.NewCommandError("rules", err)
	}
	return repo, rulesDir, nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	repo, _, err := openRepository()
	if err != nil {
		return err
	}

	rules := repo.Available()
	if rulesFlags.category != "" {
		rules = repo.ByCategory(rulesFlags.category)
	}
	if len(rules) == 0 {
		fmt.Println("No rules found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSEVERITY\tSTATE")
	for _, cfg := range rules {
		state := "disabled"
		if repo.IsEnabled(cfg.ID) {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			cfg.ID, cfg.Name, cfg.Category, cfg.Severity, state)
	}
	return w.Flush()
}

// moveRule relocates a rule definition between the enabled/ and
// disabled/ subtrees and updates the in-memory set to match.
func moveRule(id string, enable bool) error {
	repo, rulesDir, err := openRepository()
	if err != nil {
		return err
	}

	cfg, err := repo.Get(id)
	if err != nil {
		return cli.NewCommandError("rules", fmt.Errorf("%w: %s", err, id))
	}
	if cfg.Enabled == enable {
		fmt.Printf("Rule %s is already %s.\n", id, stateWord(enable))
		return nil
	}

	from, to := "disabled", "enabled"
	if !enable {
		from, to = "enabled", "disabled"
	}

	rel, err := filepath.Rel(filepath.Join(rulesDir, from), cfg.SourcePath)
	if err != nil {
		return cli.NewCommandError("rules", err)
	}
	dest := filepath.Join(rulesDir, to, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return cli.NewCommandError("rules", err)
	}
	if err := os.Rename(cfg.SourcePath, dest); err != nil {
		return cli.NewCommandError("rules", err)
	}

	if enable {
		err = repo.Enable(id)
	} else {
		err = repo.Disable(id)
	}
	if err != nil {
		return cli.NewCommandError("rules", err)
	}

	fmt.Printf("Rule %s %s.\n", id, stateWord(enable))
	return nil
}

func stateWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
