package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/install"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

type InstallConfig struct {
	Source string
	Target string
	Force  bool
}

func NewInstallConfig() *InstallConfig {
	return &InstallConfig{
		Source: ".",
	}
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install artifacts from this repository into a target repository",
	Long: `Copy skills, agents, instructions, prompts, rules, and commands from a
source layout into a target repository's .github/ and .cursor/ directories.
Existing destination files are skipped unless --force is given.

Examples:
  aiconfig install --target ../my-project
  aiconfig install --target ../my-project --source ./content --force`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getInstallConfigFromFlags(cmd)

		if config.Target == "" {
			presenter.Error(fmt.Errorf("--target is required"), "Failed to install")
			os.Exit(1)
		}

		result, err := install.Run(ctx, install.Options{
			Source: config.Source,
			Target: config.Target,
			Force:  config.Force,
		})
		if err != nil {
			presenter.Error(err, "Failed to install")
			os.Exit(1)
		}

		for _, path := range result.Installed {
			presenter.Success(fmt.Sprintf("Installed %s", path))
		}
		for _, path := range result.Skipped {
			presenter.Warning(fmt.Sprintf("Skipped %s (already exists)", path))
		}
		presenter.Info(fmt.Sprintf("Installed %d file(s), skipped %d", len(result.Installed), len(result.Skipped)))
	},
}

func init() {
	defaults := NewInstallConfig()
	installCmd.Flags().String("source", defaults.Source, "Source directory to install from")
	installCmd.Flags().String("target", defaults.Target, "Target repository to install into")
	installCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite existing destination files")
	rootCmd.AddCommand(installCmd)
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if source, err := cmd.Flags().GetString("source"); err == nil {
		config.Source = source
	}
	if target, err := cmd.Flags().GetString("target"); err == nil {
		config.Target = target
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}
