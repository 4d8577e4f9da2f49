// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	baseDir    string
	verbose    bool
}

// NewRootCommand builds the spp command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "spp",
		Short: "Package a static PHP build as RPM and Debian packages",
		Long: TitleStyle.Render("spp") + SubtitleStyle.Render(" - static PHP packager") + `

spp turns the output of a static-php-cli build into one package per
front-end, one devel package and one package per shared module, with
dependencies, load order and revisions worked out from the build.

` + SubtitleStyle.Render("Examples:") + `
  spp package                 Package everything the build declares
  spp package gd -t deb       Package only the gd module as a .deb
  spp resolve gd              Show dependencies and load order of gd
  spp libs                    Show library requirements of the runtime
  spp config show             Show the effective configuration`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./spp.cue, then $XDG_CONFIG_HOME/spp/config.cue)")
	root.PersistentFlags().StringVarP(&flags.baseDir, "dir", "C", "", "base directory for relative paths (default is the working directory)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newPackageCommand(app, flags),
		newResolveCommand(app, flags),
		newLibsCommand(app, flags),
		newConfigCommand(app, flags),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the code of any ExitError.
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
