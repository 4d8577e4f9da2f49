// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/packager"

	"github.com/spf13/cobra"
)

type packageFlags struct {
	types      string
	iteration  int
	phpVersion string
}

func newPackageCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &packageFlags{}
	cmd := &cobra.Command{
		Use:   "package [component...]",
		Short: "Build packages for the given components (default: everything declared)",
		Long: `Build RPM and Debian packages.

Components are front-ends (cli, fpm, embed, ...), devel, and shared modules
declared under shared-extensions. Without arguments every front-end, devel
and every packageable module is built.

Emission failures and missing assets do not stop the run; spp exits
non-zero after all components were processed if anything failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, app, root, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.types, "type", "t", "", "comma-separated formats to build (rpm,deb)")
	cmd.Flags().IntVar(&flags.iteration, "iteration", 0, "force the package revision instead of scanning the dist directories")
	cmd.Flags().StringVar(&flags.phpVersion, "php-version", "", "runtime version to package instead of asking the binary")
	return cmd
}

func runPackage(cmd *cobra.Command, app *App, root *rootFlags, flags *packageFlags, components []string) error {
	s, err := app.session(cmd.Context(), root)
	if err != nil {
		return err
	}
	cfg := s.cfg
	if flags.types != "" {
		formats, err := config.ParseFormats(flags.types)
		if err != nil {
			return app.fail(err, root.verbose)
		}
		cfg.Formats = formats
	}
	if flags.iteration > 0 {
		cfg.Iteration = flags.iteration
	}
	if flags.phpVersion != "" {
		cfg.PHPVersion = flags.phpVersion
	}

	reg, err := s.registry()
	if err != nil {
		return app.fail(err, root.verbose)
	}

	p := packager.New(cfg, reg, app.stdout, s.logger, packager.WithRunner(app.Runner))
	summary, runErr := p.Run(cmd.Context(), packager.Request{Components: components})
	if summary != nil {
		renderSummary(app.stdout, summary, cfg.ReportPath())
	}
	if runErr != nil {
		return app.fail(runErr, root.verbose)
	}
	return nil
}

func renderSummary(w io.Writer, s *packager.Summary, reportPath string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render("Packaging summary")+SubtitleStyle.Render(fmt.Sprintf(" (php %s, %s, %s)", s.PHPVersion, s.Architecture, s.Duration)))
	for _, o := range s.Outcomes {
		switch o.Result {
		case packager.ResultCreated:
			fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), o.Artifact)
		case packager.ResultSkipped:
			fmt.Fprintf(w, "  %s %s %s\n", WarningStyle.Render("-"), KeyStyle.Render(o.Component), SubtitleStyle.Render(o.Error))
		default:
			name := o.Component
			if o.Format != "" {
				name += " (" + string(o.Format) + ")"
			}
			fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), KeyStyle.Render(name), o.Error)
		}
	}
	fmt.Fprintf(w, "\n%d created, %d failed, %d warnings. Report: %s\n",
		len(s.Created()), len(s.Failed()), s.Warnings, reportPath)
}
