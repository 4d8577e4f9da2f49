// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/static-php/spc-packages/internal/ldd"

	"github.com/spf13/cobra"
)

func newLibsCommand(app *App, root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "libs [binary]",
		Short: "Show the versioned library requirements of a binary (default: the runtime)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context(), root)
			if err != nil {
				return err
			}
			binary := s.cfg.PHPBinary()
			if len(args) == 1 {
				binary = args[0]
			}

			reqs, err := ldd.NewExtractor(app.Runner, s.cfg.Tools.LDD, s.logger).Extract(cmd.Context(), binary)
			if err != nil {
				return app.fail(err, root.verbose)
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render(binary))
			if len(reqs) == 0 {
				fmt.Fprintln(app.stdout, "  "+SubtitleStyle.Render("(no versioned requirements)"))
			}
			for _, r := range reqs {
				fmt.Fprintf(app.stdout, "  %s%s %s\n", labelStyle.Width(24).Render(r.Library), KeyStyle.Render(r.Token), SubtitleStyle.Render(">= "+r.MinVersion))
			}
			return nil
		},
	}
}
