package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/VoxDroid/rpkgs/internal/config"
	"github.com/VoxDroid/rpkgs/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the rpkgs config file",
}

func configFile() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.ConfigPath()
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := configFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings (file, environment and flags applied)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $VISUAL or $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := configFile()
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return err
			}
			if err := config.Default().Save(p); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
		}
		if err := utils.OpenEditor(p); err != nil {
			return err
		}
		if _, err := config.Load(p); err != nil {
			return fmt.Errorf("config saved but invalid: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config ok: %s\n", p)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configShowCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
