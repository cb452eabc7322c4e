package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bluemouse/aiconfig/pkg/logger"
	"github.com/bluemouse/aiconfig/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("AICONFIG")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.aiconfig")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	// A repo-local config overrides the global one
	if _, err := os.Stat("aiconfig-config.yaml"); err == nil {
		viper.SetConfigFile("aiconfig-config.yaml")
		_ = viper.MergeInConfig()
	}
}

var rootCmd = &cobra.Command{
	Use:   "aiconfig",
	Short: "Author, validate, convert and install AI assistant content",
	Long: `aiconfig manages front-matter-tagged Markdown content for AI coding
assistants: skills, Copilot agents/instructions/prompts, and Cursor
rules/commands. It lints authoring conventions, converts Copilot
artifacts to Cursor equivalents, installs content packs, and ships
build-system and code analysis probes for C/C++ documentation work.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// bindFlags binds persistent flags to their viper config keys so that
// AICONFIG_* environment variables and config files can set them.
func bindFlags(flags *pflag.FlagSet) {
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	bindFlags(rootCmd.PersistentFlags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
