// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/loadorder"
	"github.com/static-php/spc-packages/internal/registry"
	"github.com/static-php/spc-packages/internal/resolver"

	"github.com/spf13/cobra"
)

// resolution is what resolve prints for one module.
type resolution struct {
	Name         string
	Package      string
	Dependencies []string
	LoadAfter    []string
	IniFile      string
}

func newResolveCommand(app *App, root *rootFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "resolve [module]",
		Short: "Show the dependency closure and load order of a module",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context(), root)
			if err != nil {
				return err
			}
			reg, err := s.registry()
			if err != nil {
				return app.fail(err, root.verbose)
			}

			names := args
			if all {
				names = reg.PackageableModules()
			}
			for _, name := range names {
				r, err := resolve(s.cfg, reg, name)
				if err != nil {
					return app.fail(err, root.verbose)
				}
				renderResolution(app.stdout, r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "resolve every packageable module")
	return cmd
}

func resolve(cfg *config.Config, reg *registry.Registry, name string) (resolution, error) {
	depends := resolver.New(reg, resolver.WithSuggestions(cfg.Dependencies.SuggestionsInDepends))
	ordering := resolver.New(reg, resolver.WithSuggestions(cfg.Dependencies.SuggestionsInLoadOrder))

	deps, err := depends.Resolve(name)
	if err != nil {
		return resolution{}, err
	}
	after, err := ordering.Resolve(name)
	if err != nil {
		return resolution{}, err
	}
	ini, err := loadorder.New(reg, ordering, cfg.LoadOrder).Filename(name, after)
	if err != nil {
		return resolution{}, err
	}

	self := func(d string) bool { return d == name }
	return resolution{
		Name:         name,
		Package:      cfg.PackageName(name),
		Dependencies: slices.DeleteFunc(deps, self),
		LoadAfter:    slices.DeleteFunc(after, self),
		IniFile:      ini,
	}, nil
}

func renderResolution(w io.Writer, r resolution) {
	list := func(names []string) string {
		if len(names) == 0 {
			return SubtitleStyle.Render("(none)")
		}
		return strings.Join(names, ", ")
	}
	fmt.Fprintln(w, TitleStyle.Render(r.Name))
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render("package"), r.Package)
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render("depends"), list(r.Dependencies))
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render("loads after"), list(r.LoadAfter))
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render("ini file"), SuccessStyle.Render(r.IniFile))
}
