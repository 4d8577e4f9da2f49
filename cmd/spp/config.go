// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/static-php/spc-packages/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `spp config` command tree.
func newConfigCommand(app *App, root *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage spp configuration",
		Long: `Manage spp configuration.

Configuration is looked up in order:
  - the --config path
  - ./spp.cue (or <dir>/spp.cue with --dir)
  - $XDG_CONFIG_HOME/spp/config.cue

SPP_* environment variables override file values, e.g. SPP_PREFIX.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.LoadWithPath(cmd.Context(), config.LoadOptions{ConfigFilePath: root.configPath, BaseDir: root.baseDir})
			if err != nil {
				return app.fail(err, root.verbose)
			}
			showConfig(app.stdout, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context(), root)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file lookup paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := userConfigPath(root)
			if err != nil {
				return err
			}
			written, err := config.CreateDefaultConfig(path)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	return cfgCmd
}

func userConfigPath(root *rootFlags) (string, error) {
	if root.configPath != "" {
		return root.configPath, nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt), nil
}

func showConfigPath(w io.Writer, root *rootFlags) error {
	user, err := userConfigPath(root)
	if err != nil {
		return err
	}
	base := root.baseDir
	if base == "" {
		base = "."
	}
	fmt.Fprintf(w, "Project file: %s\n", filepath.Join(base, config.ProjectFileName))
	fmt.Fprintf(w, "Config file: %s\n", user)
	return nil
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	value := func(v string) string {
		if v == "" {
			return SubtitleStyle.Render("(unset)")
		}
		return SuccessStyle.Render(v)
	}
	row := func(key, v string) {
		fmt.Fprintf(w, "  %s%s\n", labelStyle.Width(28).Render(key), value(v))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path == "" {
		path = SubtitleStyle.Render("(using defaults)")
	}
	fmt.Fprintf(w, "%s: %s\n\n", KeyStyle.Render("Config file"), path)

	formats := make([]string, len(cfg.Formats))
	for i, f := range cfg.Formats {
		formats[i] = f.String()
	}
	row("prefix", cfg.Prefix)
	row("php_version", cfg.PHPVersion)
	row("formats", strings.Join(formats, ", "))
	row("iteration", fmt.Sprint(cfg.Iteration))
	row("paths.build_root", cfg.Paths.BuildRoot)
	row("paths.ini", cfg.Paths.Ini)
	row("paths.dist (rpm)", cfg.Paths.RPMDir())
	row("paths.dist (deb)", cfg.Paths.DEBDir())
	row("paths.temp", cfg.Paths.Temp)
	row("paths.craft", cfg.Paths.Craft)
	row("paths.catalog", cfg.Paths.Catalog)
	row("tools.fpm", cfg.Tools.FPM)
	row("tools.ldd", cfg.Tools.LDD)
	row("load_order.strategy", string(cfg.LoadOrder.Strategy))
	row("load_order.early", strings.Join(cfg.LoadOrder.Early, ", "))
	row("suggestions_in_depends", fmt.Sprint(cfg.Dependencies.SuggestionsInDepends))
	row("suggestions_in_load_order", fmt.Sprint(cfg.Dependencies.SuggestionsInLoadOrder))
	row("metrics.textfile", cfg.Metrics.Textfile)
	row("report.path", cfg.ReportPath())
}
