// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration commands for the folio CLI.
//
// Command: config show|path|init|get|set
//
// set edits only the values stored in the file. Environment overrides are
// never written back.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/folio-tui/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Show, locate, create, read and change the folio configuration.

Keys use dot notation matching the file, e.g. carousel.autoplay_interval
or chat.export_format.`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := configFilePath(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p)
			if _, err := os.Stat(p); err != nil {
				fmt.Fprintln(out, DimStyle.Render("(not created yet; defaults apply)"))
			}
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := configFilePath(opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return NewCommandError("config", "init", p+" already exists (use --force to overwrite)", nil)
			}
			if err := saveConfigFile(config.Default(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Wrote "+p))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return NewCommandError("config", "get", "unknown key "+args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configFilePath(opts)
			if err != nil {
				return err
			}
			// Edit the file's own values so environment overrides and
			// derived paths are not written back.
			cfg, err := readConfigFile(p)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return NewCommandError("config", "set", "cannot set "+args[0], err)
			}
			// Fill the settings the file leaves out, then put the new
			// value back so a zero is validated rather than defaulted.
			check := cfg.Clone()
			check.SetDefaults()
			if err := check.Set(args[0], args[1]); err != nil {
				return NewCommandError("config", "set", "cannot set "+args[0], err)
			}
			if err := check.Validate(); err != nil {
				return err
			}
			if err := saveConfigFile(cfg, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("Set"), args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(show, path, initCmd, get, set)
	return cmd
}

// configFilePath is --config, the existing file, or the default TOML path.
func configFilePath(opts *rootOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	if p := config.ActivePath(); p != "" {
		return p, nil
	}
	p, err := config.ConfigPathTOML()
	if err != nil {
		return "", &configError{err}
	}
	return p, nil
}

// readConfigFile decodes p over the defaults without env overrides.
func readConfigFile(p string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(p); err != nil {
		return cfg, nil
	}
	load := config.LoadTOML
	if strings.HasSuffix(p, ".json") {
		load = config.LoadJSON
	}
	if err := load(cfg, p); err != nil {
		return nil, &configError{err}
	}
	return cfg, nil
}

func saveConfigFile(cfg *config.Config, p string) error {
	save := config.SaveTOML
	if strings.HasSuffix(p, ".json") {
		save = config.SaveJSON
	}
	if err := save(cfg, p); err != nil {
		return &configError{err}
	}
	return nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
