package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/presenter"
	"github.com/bluemouse/aiconfig/pkg/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect installed skills",
	Long:  `List and show skills discovered in the local and global skill directories and installed packs.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered skills",
	Long:  `List all discovered skills with their names, descriptions, and directory paths.`,
	Run: func(_ *cobra.Command, _ []string) {
		listSkillsCmd()
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Print a skill's content",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		showSkillCmd(args[0])
	},
}

func init() {
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	rootCmd.AddCommand(skillCmd)
}

func listSkillsCmd() {
	discovery, err := skills.NewDiscovery(skills.WithDefaultDirs())
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	allSkills, err := discovery.DiscoverSkills()
	if err != nil {
		presenter.Error(err, "Failed to discover skills")
		os.Exit(1)
	}

	if len(allSkills) == 0 {
		presenter.Info("No skills installed")
		return
	}

	names := make([]string, 0, len(allSkills))
	for name := range allSkills {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, name := range names {
		skill := allSkills[name]
		description := skill.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
	}
	tw.Flush()
}

func showSkillCmd(name string) {
	discovery, err := skills.NewDiscovery(skills.WithDefaultDirs())
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}

	skill, err := discovery.GetSkill(name)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Skill '%s' not found", name))
		os.Exit(1)
	}

	presenter.Section(skill.Name)
	presenter.Info(skill.Description)
	presenter.Separator()
	fmt.Println(skill.Content)
}
