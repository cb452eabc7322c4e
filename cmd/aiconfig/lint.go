package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/lint"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Validate front matter in Markdown artifacts",
	Long: `Validate the YAML front matter of skills, agents, instructions,
prompts, rules, and docs. With no arguments the current directory is
checked recursively.

Examples:
  aiconfig lint
  aiconfig lint .github .cursor
  aiconfig lint skills/commit-helper/SKILL.md`,
	Run: func(cmd *cobra.Command, args []string) {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		findings, err := lint.LintPaths(paths)
		if err != nil {
			presenter.Error(err, "Failed to lint")
			os.Exit(1)
		}

		if len(findings) == 0 {
			presenter.Success("No issues found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tSEVERITY\tRULE\tMESSAGE")
		for _, finding := range findings {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", finding.Path, finding.Severity, finding.Rule, finding.Message)
		}
		w.Flush()

		aggregated := lint.Aggregate(findings)
		errorCount := 0
		var merr *multierror.Error
		if errors.As(aggregated, &merr) {
			errorCount = merr.Len()
		}
		presenter.Warning(fmt.Sprintf("%d issue(s) found (%d error(s))", len(findings), errorCount))

		if aggregated != nil {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
