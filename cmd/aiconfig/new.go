package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bluemouse/aiconfig/pkg/presenter"
	"github.com/bluemouse/aiconfig/pkg/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new skill, doc, prompt, instructions, or agent file",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var newSkillCmd = &cobra.Command{
	Use:   "skill [name]",
	Short: "Scaffold a new skill directory with a SKILL.md",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		description, _ := cmd.Flags().GetString("description")
		dir, _ := cmd.Flags().GetString("dir")

		path, err := scaffold.NewSkill(scaffold.SkillOptions{
			Name:        args[0],
			Description: description,
			Dir:         dir,
		})
		if err != nil {
			presenter.Error(err, "Failed to create skill")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Created %s", path))
	},
}

var newDocCmd = &cobra.Command{
	Use:   "doc [title]",
	Short: "Scaffold a new documentation page",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		author, _ := cmd.Flags().GetString("author")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		summary, _ := cmd.Flags().GetString("summary")
		dir, _ := cmd.Flags().GetString("dir")

		path, err := scaffold.NewDoc(scaffold.DocOptions{
			Title:   args[0],
			Author:  author,
			Tags:    tags,
			Summary: summary,
			Dir:     dir,
		})
		if err != nil {
			presenter.Error(err, "Failed to create doc")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Created %s", path))
	},
}

var newPromptCmd = &cobra.Command{
	Use:   "prompt [name]",
	Short: "Scaffold a new Copilot prompt file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runNewArtifact(cmd, args[0], scaffold.ArtifactPrompt)
	},
}

var newInstructionsCmd = &cobra.Command{
	Use:   "instructions [name]",
	Short: "Scaffold a new Copilot instructions file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runNewArtifact(cmd, args[0], scaffold.ArtifactInstructions)
	},
}

var newAgentCmd = &cobra.Command{
	Use:   "agent [name]",
	Short: "Scaffold a new Copilot agent file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runNewArtifact(cmd, args[0], scaffold.ArtifactAgent)
	},
}

func runNewArtifact(cmd *cobra.Command, name string, artifactType scaffold.ArtifactType) {
	description, _ := cmd.Flags().GetString("description")
	dir, _ := cmd.Flags().GetString("dir")

	path, err := scaffold.NewArtifact(scaffold.ArtifactOptions{
		Type:        artifactType,
		Name:        name,
		Description: description,
		Dir:         dir,
	})
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to create %s", artifactType))
		os.Exit(1)
	}
	presenter.Success(fmt.Sprintf("Created %s", path))
}

func init() {
	newSkillCmd.Flags().StringP("description", "d", "", "Skill description for the frontmatter")
	newSkillCmd.Flags().String("dir", "skills", "Directory to create the skill under")

	newDocCmd.Flags().String("author", "", "Doc author for the frontmatter")
	newDocCmd.Flags().StringSlice("tags", nil, "Comma-separated tags for the frontmatter")
	newDocCmd.Flags().String("summary", "", "One-line summary for the frontmatter")
	newDocCmd.Flags().String("dir", "docs", "Directory to create the doc under")

	for _, cmd := range []*cobra.Command{newPromptCmd, newInstructionsCmd, newAgentCmd} {
		cmd.Flags().StringP("description", "d", "", "Description for the frontmatter")
	}
	newPromptCmd.Flags().String("dir", ".github/prompts", "Directory to create the prompt under")
	newInstructionsCmd.Flags().String("dir", ".github/instructions", "Directory to create the instructions under")
	newAgentCmd.Flags().String("dir", ".github/agents", "Directory to create the agent under")

	newCmd.AddCommand(newSkillCmd, newDocCmd, newPromptCmd, newInstructionsCmd, newAgentCmd)
	rootCmd.AddCommand(newCmd)
}
