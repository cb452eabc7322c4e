package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/packs"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

type PackConfig struct {
	Global bool
	Force  bool
}

func NewPackConfig() *PackConfig {
	return &PackConfig{}
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage content packs",
	Long:  `Install, list, and remove content packs from GitHub repositories.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var packInstallCmd = &cobra.Command{
	Use:   "install <owner/repo>",
	Short: "Install a content pack from a GitHub repository",
	Long: `Install a content pack from a GitHub repository. The repository should
contain skills/, prompts/, or rules/ directories.

Examples:
  aiconfig pack install orgname/content-pack
  aiconfig pack install orgname/content-pack@v1.2.0
  aiconfig pack install orgname/content-pack -g`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getPackConfigFromFlags(cmd)
		installPackCmd(cmd.Context(), args[0], config)
	},
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packs",
	Run: func(cmd *cobra.Command, _ []string) {
		config := getPackConfigFromFlags(cmd)
		listPacksCmd(config)
	},
}

var packRemoveCmd = &cobra.Command{
	Use:   "remove <owner/repo>",
	Short: "Remove an installed pack",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getPackConfigFromFlags(cmd)
		removePackCmd(args[0], config)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{packInstallCmd, packListCmd, packRemoveCmd} {
		cmd.Flags().BoolP("global", "g", false, "Use the global ~/.aiconfig directory instead of ./.aiconfig")
	}
	packInstallCmd.Flags().BoolP("force", "f", false, "Overwrite an already installed pack")

	packCmd.AddCommand(packInstallCmd)
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packRemoveCmd)
	rootCmd.AddCommand(packCmd)
}

func getPackConfigFromFlags(cmd *cobra.Command) *PackConfig {
	config := NewPackConfig()
	if global, err := cmd.Flags().GetBool("global"); err == nil {
		config.Global = global
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}

func installPackCmd(ctx context.Context, repo string, config *PackConfig) {
	repoName, ref := packs.ParseRepoAndRef(repo)

	installer, err := packs.NewInstaller(packs.WithGlobal(config.Global), packs.WithForce(config.Force))
	if err != nil {
		presenter.Error(err, "Failed to initialize pack installer")
		os.Exit(1)
	}

	result, err := installer.Install(ctx, repoName, ref)
	if err != nil {
		presenter.Error(err, "Failed to install pack")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Installed pack '%s'", packs.PackNameToUserFacing(result.PackName)))
	if len(result.Skills) > 0 {
		presenter.Info(fmt.Sprintf("  skills: %d", len(result.Skills)))
	}
	if len(result.Prompts) > 0 {
		presenter.Info(fmt.Sprintf("  prompts: %d", len(result.Prompts)))
	}
	if len(result.Rules) > 0 {
		presenter.Info(fmt.Sprintf("  rules: %d", len(result.Rules)))
	}
}

func listPacksCmd(config *PackConfig) {
	remover, err := packs.NewRemover(packs.WithGlobal(config.Global))
	if err != nil {
		presenter.Error(err, "Failed to initialize pack listing")
		os.Exit(1)
	}

	names, err := remover.ListPacks()
	if err != nil {
		presenter.Error(err, "Failed to list packs")
		os.Exit(1)
	}

	if len(names) == 0 {
		presenter.Info("No packs installed")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func removePackCmd(repo string, config *PackConfig) {
	remover, err := packs.NewRemover(packs.WithGlobal(config.Global))
	if err != nil {
		presenter.Error(err, "Failed to initialize pack removal")
		os.Exit(1)
	}

	if err := remover.Remove(repo); err != nil {
		presenter.Error(err, "Failed to remove pack")
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Removed pack '%s'", repo))
}
