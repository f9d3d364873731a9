package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/config"
	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/log"
)

var (
	flagConfig  string
	flagVerbose bool
	flagRBinary string
)

var rootCmd = &cobra.Command{
	Use:           "rpkgs",
	Short:         "rpkgs manages the packages of an R installation",
	Long:          "rpkgs runs a background R session to list, search, install, update, load and unload R packages",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "rpkgs: run 'rpkgs --help' to see available commands")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.rpkgs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagRBinary, "r-binary", "", "R executable to run instead of the configured one")
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagRBinary != "" {
		cfg.R.Command, err = withBinary(cfg.R.Command, flagRBinary)
		if err != nil {
			return nil, err
		}
	}
	level := log.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = log.LevelDebug
	}
	log.SetLevel(level)
	return cfg, nil
}

// withBinary replaces the executable of command line, keeping its arguments.
func withBinary(command, binary string) (string, error) {
	if strings.TrimSpace(command) == "" {
		command = executor.DefaultCommand
	}
	words, err := shellquote.Split(command)
	if err != nil {
		return "", fmt.Errorf("r.command: %w", err)
	}
	if len(words) == 0 {
		words = []string{binary}
	} else {
		words[0] = binary
	}
	return shellquote.Join(words...), nil
}
