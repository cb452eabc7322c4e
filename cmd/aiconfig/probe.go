package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/buildprobe"
	"github.com/bluemouse/aiconfig/pkg/codemap"
	"github.com/bluemouse/aiconfig/pkg/logger"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Inspect build systems and source structure of a repository",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var probeBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Summarize CMake, MSBuild, and Xcode build configuration",
	Long: `Scan a repository for CMake, Visual Studio, and Xcode build files and
render a Markdown summary of the discovered targets.

Examples:
  aiconfig probe build
  aiconfig probe build --root ../engine --diagrams --out docs/build.md`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		root, _ := cmd.Flags().GetString("root")
		maxHits, _ := cmd.Flags().GetInt("max-hits")
		diagrams, _ := cmd.Flags().GetBool("diagrams")
		out, _ := cmd.Flags().GetString("out")

		report, err := buildprobe.Run(ctx, buildprobe.Options{
			Root:    root,
			MaxHits: maxHits,
		})
		if err != nil {
			presenter.Error(err, "Failed to probe build systems")
			os.Exit(1)
		}

		if err := writeOutput(report.Render(diagrams), out); err != nil {
			presenter.Error(err, "Failed to write output")
			os.Exit(1)
		}
	},
}

var probeCodeCmd = &cobra.Command{
	Use:   "code",
	Short: "Generate include graphs and API indexes from compile_commands.json",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var probeCodeIncludesCmd = &cobra.Command{
	Use:   "includes",
	Short: "Render a Mermaid include/component dependency graph",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		root, _ := cmd.Flags().GetString("root")
		inputs, _ := cmd.Flags().GetStringSlice("inputs")
		componentDepth, _ := cmd.Flags().GetInt("component-depth")
		includeSystem, _ := cmd.Flags().GetBool("include-system")
		noLabelCounts, _ := cmd.Flags().GetBool("no-label-counts")
		out, _ := cmd.Flags().GetString("out")

		targets := selectTargets(cmd, root, inputs)

		edges, err := codemap.ScanIncludes(ctx, targets, codemap.IncludesOptions{
			Root:           root,
			ComponentDepth: componentDepth,
			IncludeSystem:  includeSystem,
			LabelCounts:    !noLabelCounts,
		})
		if err != nil {
			presenter.Error(err, "Failed to scan includes")
			os.Exit(1)
		}

		if err := writeOutput(codemap.RenderIncludes(edges, !noLabelCounts), out); err != nil {
			presenter.Error(err, "Failed to write output")
			os.Exit(1)
		}
	},
}

var probeCodeIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Render a lightweight API index as Markdown",
	Run: func(cmd *cobra.Command, _ []string) {
		root, _ := cmd.Flags().GetString("root")
		inputs, _ := cmd.Flags().GetStringSlice("inputs")
		includePrivate, _ := cmd.Flags().GetBool("include-private")
		out, _ := cmd.Flags().GetString("out")

		if includePrivate {
			logger.G(cmd.Context()).Warn("--include-private has no effect with the fallback backend")
		}

		targets := selectTargets(cmd, root, inputs)

		if err := writeOutput(codemap.BuildIndex(targets, root), out); err != nil {
			presenter.Error(err, "Failed to write output")
			os.Exit(1)
		}
	},
}

func init() {
	probeBuildCmd.Flags().String("root", ".", "Repository root to scan")
	probeBuildCmd.Flags().Int("max-hits", buildprobe.DefaultMaxHits, "Maximum files reported per build system")
	probeBuildCmd.Flags().Bool("diagrams", false, "Include Mermaid dependency diagrams")
	probeBuildCmd.Flags().String("out", "", "Write output to a file instead of stdout")

	for _, cmd := range []*cobra.Command{probeCodeIncludesCmd, probeCodeIndexCmd} {
		cmd.Flags().String("root", ".", "Repository root used for relative paths and filtering")
		cmd.Flags().String("compdb", "", "Path to compile_commands.json (default: <root>/compile_commands.json)")
		cmd.Flags().StringSlice("inputs", nil, "Files or directories selecting translation units from the database")
		cmd.Flags().String("backend", "auto", "Analysis backend: auto or fallback")
		cmd.Flags().String("out", "", "Write output to a file instead of stdout")
		cmd.MarkFlagRequired("inputs")
		probeCodeCmd.AddCommand(cmd)
	}
	probeCodeIncludesCmd.Flags().Int("component-depth", 2, "Directory depth used to group files into components")
	probeCodeIncludesCmd.Flags().Bool("include-system", false, "Include system headers (may be noisy)")
	probeCodeIncludesCmd.Flags().Bool("no-label-counts", false, "Do not label edges with include counts")
	probeCodeIndexCmd.Flags().Bool("include-private", false, "Include declarations outside --root (libclang backends only)")

	probeCmd.AddCommand(probeBuildCmd, probeCodeCmd)
	rootCmd.AddCommand(probeCmd)
}

// selectTargets loads the compilation database and narrows it to the
// requested inputs, exiting with the conventional status codes when the
// database is missing (2) or nothing matches (3).
func selectTargets(cmd *cobra.Command, root string, inputs []string) []codemap.CompileCommand {
	ctx := cmd.Context()
	compdb, _ := cmd.Flags().GetString("compdb")
	requestedBackend, _ := cmd.Flags().GetString("backend")

	backend := codemap.SelectBackend(requestedBackend)
	logger.G(ctx).WithField("reason", backend.Reason).Warnf("using %s backend", backend.Name)

	commands, err := codemap.LoadCompileCommands(codemap.DatabasePath(compdb, root))
	if err != nil {
		if errors.Is(err, codemap.ErrDatabaseNotFound) {
			presenter.Error(err, "Configure CMake with CMAKE_EXPORT_COMPILE_COMMANDS=ON, or provide --compdb PATH")
			os.Exit(2)
		}
		presenter.Error(err, "Failed to load compilation database")
		os.Exit(1)
	}

	targets, err := codemap.SelectTargets(commands, inputs)
	if err != nil {
		if errors.Is(err, codemap.ErrNoTranslationUnits) {
			presenter.Error(err, "Pass a directory or files that exist in compile_commands.json")
			os.Exit(3)
		}
		presenter.Error(err, "Failed to select translation units")
		os.Exit(1)
	}
	return targets
}

func writeOutput(content, out string) error {
	if out == "" {
		fmt.Print(content)
		return nil
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(out, []byte(content), 0o644)
}
