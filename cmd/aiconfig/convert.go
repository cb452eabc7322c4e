package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/convert"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

type ConvertConfig struct {
	Src   string
	Dst   string
	Watch bool
}

func NewConvertConfig() *ConvertConfig {
	return &ConvertConfig{
		Src: ".github",
		Dst: ".cursor",
	}
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert Copilot artifacts to Cursor equivalents",
	Long: `Convert GitHub Copilot artifacts into their Cursor equivalents:
agents and instructions become .mdc rules, prompts become commands.

Examples:
  aiconfig convert all
  aiconfig convert agents --src .github --dst .cursor
  aiconfig convert prompts .github/prompts/review.prompt.md
  aiconfig convert all --watch`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var convertAgentsCmd = &cobra.Command{
	Use:   "agents [file]",
	Short: "Convert .agent.md files to Cursor rules",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runConvert(cmd, args, []convert.Kind{convert.KindAgents})
	},
}

var convertInstructionsCmd = &cobra.Command{
	Use:   "instructions [file]",
	Short: "Convert .instructions.md files to Cursor rules",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runConvert(cmd, args, []convert.Kind{convert.KindInstructions})
	},
}

var convertPromptsCmd = &cobra.Command{
	Use:   "prompts [file]",
	Short: "Convert .prompt.md files to Cursor commands",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runConvert(cmd, args, []convert.Kind{convert.KindPrompts})
	},
}

var convertAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Convert agents, instructions, and prompts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runConvert(cmd, nil, convert.Kinds)
	},
}

func init() {
	defaults := NewConvertConfig()
	for _, cmd := range []*cobra.Command{convertAgentsCmd, convertInstructionsCmd, convertPromptsCmd, convertAllCmd} {
		cmd.Flags().String("src", defaults.Src, "Source root containing agents/, instructions/, prompts/")
		cmd.Flags().String("dst", defaults.Dst, "Destination root for rules/ and commands/")
		cmd.Flags().BoolP("watch", "w", defaults.Watch, "Watch source directories and re-convert on change")
		convertCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(convertCmd)
}

func getConvertConfigFromFlags(cmd *cobra.Command) *ConvertConfig {
	config := NewConvertConfig()
	if src, err := cmd.Flags().GetString("src"); err == nil {
		config.Src = src
	}
	if dst, err := cmd.Flags().GetString("dst"); err == nil {
		config.Dst = dst
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}
	return config
}

func kindDirs(kind convert.Kind, config *ConvertConfig) (string, string) {
	switch kind {
	case convert.KindPrompts:
		return filepath.Join(config.Src, "prompts"), filepath.Join(config.Dst, "commands")
	case convert.KindAgents:
		return filepath.Join(config.Src, "agents"), filepath.Join(config.Dst, "rules")
	default:
		return filepath.Join(config.Src, "instructions"), filepath.Join(config.Dst, "rules")
	}
}

func runConvert(cmd *cobra.Command, args []string, kinds []convert.Kind) {
	config := getConvertConfigFromFlags(cmd)

	// Single-file mode
	if len(args) == 1 {
		kind := kinds[0]
		_, destDir := kindDirs(kind, config)
		result := convert.ConvertFile(kind, args[0], destDir)
		reportResult(result)
		if result.Err != nil {
			os.Exit(1)
		}
		return
	}

	var results []convert.Result
	var specs []convert.WatchSpec
	for _, kind := range kinds {
		srcDir, destDir := kindDirs(kind, config)
		specs = append(specs, convert.WatchSpec{Kind: kind, Src: srcDir, Dst: destDir})

		kindResults, err := convert.ConvertDir(kind, srcDir, destDir)
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to convert %s", kind))
			os.Exit(1)
		}
		results = append(results, kindResults...)
	}

	for _, result := range results {
		reportResult(result)
	}
	summary := convert.Summarize(results)
	presenter.Info(summary.String())

	if config.Watch {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		presenter.Info("Watching for changes (ctrl-c to stop)...")
		if err := convert.Watch(ctx, specs, reportResult); err != nil && !errors.Is(err, context.Canceled) {
			presenter.Error(err, "Watch failed")
			os.Exit(1)
		}
		return
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func reportResult(result convert.Result) {
	if result.Err != nil {
		presenter.Error(result.Err, fmt.Sprintf("Failed to convert %s", result.Source))
		return
	}
	for _, warning := range result.Warnings {
		presenter.Warning(fmt.Sprintf("%s: %s", result.Source, warning))
	}
	presenter.Success(fmt.Sprintf("%s -> %s", result.Source, result.Destination))
}
