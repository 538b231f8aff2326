// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/koentsje/enhancer/internal/config"
	"github.com/koentsje/enhancer/internal/issue"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage enhancer configuration",
	Long: `Manage enhancer configuration.

Configuration is stored in:
  - Linux: ~/.config/enhancer/config.cue
  - macOS: ~/Library/Application Support/enhancer/config.cue
  - Windows: %APPDATA%\enhancer\config.cue

A project-local enhancer.cue in the working directory is used when no
user-level config file exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			fmt.Println(filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the resolved configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	if cfg == nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return fmt.Errorf("configuration unavailable")
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if cfgPath != "" {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	boolVal := func(v bool) string { return SuccessStyle.Render(strconv.FormatBool(v)) }

	fmt.Printf("%s: %s\n", CmdStyle.Render("classes_dir"), SuccessStyle.Render(cfg.ClassesDir))
	fmt.Printf("%s: %s\n", CmdStyle.Render("enable_association_management"), boolVal(cfg.EnableAssociationManagement))
	fmt.Printf("%s: %s\n", CmdStyle.Render("enable_dirty_tracking"), boolVal(cfg.EnableDirtyTracking))
	fmt.Printf("%s: %s\n", CmdStyle.Render("enable_lazy_initialization"), boolVal(cfg.EnableLazyInitialization))
	fmt.Printf("%s: %s\n", CmdStyle.Render("enable_extended_enhancement"), boolVal(cfg.EnableExtendedEnhancement))
	fmt.Printf("%s: %s\n", CmdStyle.Render("ui.verbose"), boolVal(cfg.UI.Verbose))

	if len(cfg.FileSets) == 0 {
		fmt.Printf("%s: %s\n", CmdStyle.Render("filesets"), SubtitleStyle.Render("(whole classes directory)"))
		return nil
	}
	fmt.Printf("%s:\n", CmdStyle.Render("filesets"))
	for i, rule := range cfg.FileSets {
		fmt.Printf("  [%d] dir=%q includes=%v excludes=%v\n", i, rule.Dir, rule.Includes, rule.Excludes)
	}
	return nil
}
