package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/config"
	"github.com/mark3labs/drapery/internal/hooks"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
	hooks   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create drapery configuration file",
	Long: `Create a drapery configuration file with the default settings.

By default, creates a global config at ~/.config/drapery/drapery.yml.
Use --project to create a project-local config in the current directory.
Use --hooks to also write an example .drapery.hooks.yml here.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing files")
	setupCmd.Flags().BoolVar(&setupFlags.hooks, "hooks", false, "Also write an example hooks file to the current directory")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	write := config.WriteGlobal
	if setupFlags.project {
		targetPath = config.ProjectPath()
		write = config.WriteProject
	}
	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}
	if setupFlags.hooks && !setupFlags.force && fileExists(hooks.ConfigFileName) {
		return fmt.Errorf("hooks file already exists at %s\n\nUse --force to overwrite", hooks.ConfigFileName)
	}

	cfg := config.Defaults()
	if err := write(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("Config written to: %s\n\n", targetPath)

	t := newTable([]string{"Setting", "Value"})
	t.Row("data_dir", cfg.DataDir)
	t.Row("capture_dir", cfg.CaptureDir)
	t.Row("journal", strconv.FormatBool(cfg.Journal))
	t.Row("theme", cfg.Theme)
	t.Row("ar.enabled", strconv.FormatBool(cfg.AR.Enabled))
	t.Row("ar.model_path", cfg.AR.ModelPath)
	t.Row("ar.swatches", strings.Join(cfg.AR.Swatches, ", "))
	lipgloss.Println(t)

	if setupFlags.hooks {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		path, err := hooks.WriteConfig(wd, hooks.Example())
		if err != nil {
			return err
		}
		fmt.Printf("\nExample hooks written to: %s\n", path)
	}

	fmt.Println("\nRun 'drapery shop' to get started.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
