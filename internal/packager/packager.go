// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/static-php/spc-packages/internal/command"
	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/emitter"
	"github.com/static-php/spc-packages/internal/iteration"
	"github.com/static-php/spc-packages/internal/ldd"
	"github.com/static-php/spc-packages/internal/manifest"
	"github.com/static-php/spc-packages/internal/probe"
	"github.com/static-php/spc-packages/internal/registry"
)

// Outcome results.
const (
	ResultCreated = "created"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type (
	// Clock is the time source for run durations.
	Clock interface {
		Now() time.Time
		Since(t time.Time) time.Duration
	}

	// Packager runs packaging for one configuration.
	Packager struct {
		cfg    *config.Config
		reg    *registry.Registry
		runner *command.Runner
		out    io.Writer
		logger *slog.Logger
		clock  Clock
	}

	// Option configures a Packager.
	Option func(*Packager)

	// Request selects what a run packages. Empty Components means every
	// front-end, devel and every packageable module.
	Request struct {
		Components []string
	}

	// Outcome is the result of one (component, format) emission, or of a
	// component that never reached emission.
	Outcome struct {
		Component     string        `toml:"component"`
		Package       string        `toml:"package,omitempty"`
		Format        config.Format `toml:"format,omitempty"`
		Version       string        `toml:"version,omitempty"`
		Iteration     int           `toml:"iteration,omitempty"`
		Architecture  string        `toml:"architecture,omitempty"`
		Artifact      string        `toml:"artifact,omitempty"`
		Result        string        `toml:"result"`
		Error         string        `toml:"error,omitempty"`
		MissingAssets []string      `toml:"missing_assets,omitempty"`
	}

	// Summary collects every outcome of a run.
	Summary struct {
		PHPVersion   string
		Architecture string
		Outcomes     []Outcome
		Warnings     int
		Duration     time.Duration
	}

	realClock struct{}
)

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// WithRunner sets the subprocess runner.
func WithRunner(r *command.Runner) Option {
	return func(p *Packager) { p.runner = r }
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(p *Packager) { p.clock = c }
}

// New creates a Packager. Packaging tool output is streamed to out.
func New(cfg *config.Config, reg *registry.Registry, out io.Writer, logger *slog.Logger, opts ...Option) *Packager {
	p := &Packager{
		cfg:    cfg,
		reg:    reg,
		runner: command.NewRunner(),
		out:    out,
		logger: logger,
		clock:  realClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadRegistry reads the build declaration and the extension catalog named
// by cfg.
func LoadRegistry(cfg *config.Config) (*registry.Registry, error) {
	decl, err := registry.LoadDeclaration(cfg.Paths.Craft)
	if err != nil {
		return nil, err
	}
	catalog, err := registry.LoadCatalog(cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}
	return registry.New(decl, catalog), nil
}

// DefaultComponents is every front-end, devel and every packageable module.
func DefaultComponents(reg *registry.Registry) []string {
	components := append(reg.Sapis(), "devel")
	return append(components, reg.PackageableModules()...)
}

// Prober returns the runtime prober configured for this run.
func (p *Packager) Prober() *probe.Prober {
	return probe.New(p.runner, probe.Tools{
		PHP:   p.cfg.PHPBinary(),
		Uname: p.cfg.Tools.Uname,
		Arch:  p.cfg.Tools.Arch,
	}, p.logger)
}

// Host probes the runtime version, the architecture and the library
// requirements of the runtime binary. Any failure aborts the run.
func (p *Packager) Host(ctx context.Context) (manifest.Host, error) {
	prober := p.Prober()

	version := p.cfg.PHPVersion
	if version == "" {
		v, err := prober.PHPVersion(ctx)
		if err != nil {
			return manifest.Host{}, err
		}
		version = v
	}

	libs, err := ldd.NewExtractor(p.runner, p.cfg.Tools.LDD, p.logger).Extract(ctx, p.cfg.PHPBinary())
	if err != nil {
		return manifest.Host{}, err
	}

	return manifest.Host{
		PHPVersion:   version,
		Architecture: prober.Architecture(ctx),
		Libraries:    libs,
	}, nil
}

// Run packages the requested components. The returned Summary is complete
// even when the error is non-nil, unless the host could not be probed.
func (p *Packager) Run(ctx context.Context, req Request) (*Summary, error) {
	start := p.clock.Now()
	metrics := newRunMetrics()

	host, err := p.Host(ctx)
	if err != nil {
		return nil, err
	}

	components := req.Components
	if len(components) == 0 {
		components = DefaultComponents(p.reg)
	}

	r := &run{
		Packager: p,
		agg:      manifest.NewAggregator(p.cfg, p.reg, p.Prober(), host, p.logger),
		alloc: iteration.New(map[config.Format]string{
			config.FormatRPM: p.cfg.Paths.RPMDir(),
			config.FormatDEB: p.cfg.Paths.DEBDir(),
		}, p.cfg.Iteration),
		emit:    emitter.New(p.cfg, p.runner, p.out, p.logger),
		metrics: metrics,
		summary: &Summary{PHPVersion: host.PHPVersion, Architecture: host.Architecture},
	}

	p.logger.Info("packaging", "components", len(components), "php", host.PHPVersion, "arch", host.Architecture)
	for _, component := range components {
		if err := ctx.Err(); err != nil {
			r.errs = append(r.errs, err)
			break
		}
		if abort := r.component(ctx, component); abort {
			break
		}
	}

	r.summary.Duration = p.clock.Since(start)
	metrics.duration.Set(r.summary.Duration.Seconds())

	if path := p.cfg.Metrics.Textfile; path != "" {
		if err := metrics.write(path); err != nil {
			r.errs = append(r.errs, err)
		}
	}
	if err := writeReport(p.cfg.ReportPath(), r.summary); err != nil {
		r.errs = append(r.errs, err)
	}
	return r.summary, errors.Join(r.errs...)
}

// run is the state of one Run call.
type run struct {
	*Packager
	agg     *manifest.Aggregator
	alloc   *iteration.Allocator
	emit    *emitter.Emitter
	metrics *runMetrics
	summary *Summary
	errs    []error
}

// component packages one component in every configured format. It reports
// whether the run must stop.
func (r *run) component(ctx context.Context, component string) bool {
	m, err := r.agg.Build(ctx, component)
	if err != nil {
		var missing *manifest.MissingComponentError
		if errors.As(err, &missing) {
			r.logger.Warn("skipping component", "component", component, "asset", missing.Asset)
			r.summary.Warnings++
			r.metrics.warnings.Inc()
			r.metrics.skipped.Inc()
			r.record(Outcome{Component: component, Result: ResultSkipped, Error: err.Error()})
			return false
		}
		r.logger.Error("cannot build manifest", "component", component, "err", err)
		r.errs = append(r.errs, err)
		r.record(Outcome{Component: component, Result: ResultFailed, Error: err.Error()})
		return false
	}

	key := iteration.Key{Name: m.Name, Version: m.Version, Architecture: m.Architecture}
	iter, err := r.alloc.Next(key)
	if err != nil {
		err = fmt.Errorf("%s: allocate iteration: %w", m.Name, err)
		r.logger.Error("cannot allocate iteration", "package", m.Name, "err", err)
		r.errs = append(r.errs, err)
		r.record(Outcome{Component: component, Package: m.Name, Result: ResultFailed, Error: err.Error()})
		return false
	}

	for _, f := range r.cfg.Formats {
		o := Outcome{
			Component:    component,
			Package:      m.Name,
			Format:       f,
			Version:      m.Version,
			Iteration:    iter,
			Architecture: m.Architecture,
		}
		res, err := r.emit.Emit(ctx, m, f, iter)
		o.MissingAssets = res.MissingAssets
		if n := len(res.MissingAssets); n > 0 {
			r.summary.Warnings += n
			r.metrics.warnings.Add(float64(n))
		}
		if err != nil {
			o.Result = ResultFailed
			o.Error = err.Error()
			r.record(o)
			r.metrics.packages.WithLabelValues(string(f), ResultFailed).Inc()
			r.errs = append(r.errs, err)
			if errors.Is(err, emitter.ErrPackagerUnavailable) {
				r.logger.Error("packaging tool unavailable", "tool", r.cfg.Tools.FPM, "err", err)
				return true
			}
			r.logger.Error("package emission failed", "package", m.Name, "format", f, "err", err)
			continue
		}
		o.Result = ResultCreated
		o.Artifact = res.Artifact
		r.record(o)
		r.metrics.packages.WithLabelValues(string(f), ResultCreated).Inc()
	}
	return false
}

func (r *run) record(o Outcome) {
	r.summary.Outcomes = append(r.summary.Outcomes, o)
}

// Failed returns the outcomes that did not produce an artifact.
func (s *Summary) Failed() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Result == ResultFailed {
			out = append(out, o)
		}
	}
	return out
}

// Created returns the outcomes that produced an artifact.
func (s *Summary) Created() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Result == ResultCreated {
			out = append(out, o)
		}
	}
	return out
}
