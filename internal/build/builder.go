package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/statica-dev/statica/internal/config"
	"github.com/statica-dev/statica/internal/errors"
	"github.com/statica-dev/statica/internal/templates"
	"github.com/statica-dev/statica/pkg/bundler"
	"github.com/statica-dev/statica/pkg/manifest"
	"github.com/statica-dev/statica/pkg/router"
)

// State identifies where the orchestrator is in a run.
type State int

const (
	// StateIdle means no run has started.
	StateIdle State = iota

	// StateConfiguring means routes are being registered with the bundler.
	StateConfiguring

	// StateCompiling means the bundler is running.
	StateCompiling

	// StateDone means the last run succeeded.
	StateDone

	// StateFailed means the last run aborted.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateCompiling:
		return "compiling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report summarizes a completed run.
type Report struct {
	// Duration is how long the run took.
	Duration time.Duration

	// Routes is the number of routes in the table.
	Routes int

	// Prerendered is the number of routes with HTML outputs.
	Prerendered int

	// SkeletonEntries is the number of entries in the secondary batch.
	SkeletonEntries int

	// Warnings are non-fatal diagnostics from the table and the bundler.
	Warnings []string

	// OutputDir is the output root artifacts were written into.
	OutputDir string

	// ManifestPath is where the build manifest was written, when at least
	// one route was prerendered.
	ManifestPath string
}

// Options configures the builder.
type Options struct {
	// Minify enables asset minification.
	Minify bool

	// SourceMaps enables source map generation.
	SourceMaps bool

	// Concurrency bounds per-route registration workers. Zero selects the
	// machine's CPU count.
	Concurrency int

	// Logger receives build logs. Nil selects slog.Default().
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)

	// NewBundler supplies a fresh bundler session for each run. Nil
	// selects the exec bundler from the build configuration.
	NewBundler func() bundler.Bundler
}

// Builder orchestrates prerender builds.
//
// A run walks the route table, registers one primary entry per route and an
// HTML output instruction per prerendering route, batches every skeleton
// into a single secondary configuration, then invokes the bundler exactly
// once. Each route's HTMLPath is recorded before the bundler runs and rolled
// back if the run fails, so a failed run never leaves the table claiming
// artifacts that were not built.
type Builder struct {
	config  *config.Config
	options Options
	logger  *slog.Logger

	// defaultSession marks that Run will shell out to the configured
	// bundler command rather than a caller-supplied session factory.
	defaultSession bool

	mu    sync.Mutex
	state State
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	// Apply config defaults to options
	if !options.Minify && cfg.Build.Minify {
		options.Minify = true
	}
	if !options.SourceMaps && cfg.Build.SourceMaps {
		options.SourceMaps = true
	}
	if options.Concurrency == 0 && cfg.Build.Concurrency > 0 {
		options.Concurrency = cfg.Build.Concurrency
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	b := &Builder{
		config:  cfg,
		options: options,
		logger:  options.Logger,
		state:   StateIdle,
	}

	if b.options.NewBundler == nil {
		b.defaultSession = true
		b.options.NewBundler = func() bundler.Bundler {
			return bundler.NewExec(bundler.ExecOptions{
				Command: cfg.Build.Bundler.Command,
				Args:    cfg.Build.Bundler.Args,
				Dir:     cfg.Dir(),
				Build: bundler.BuildOptions{
					Minify:     b.options.Minify,
					SourceMaps: b.options.SourceMaps,
				},
				Logger: b.logger,
			})
		}
	}

	return b
}

// State returns where the orchestrator currently is.
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Run executes one build over the route table. A builder handles one run at
// a time; rerunning after completion starts a fresh bundler session.
func (b *Builder) Run(ctx context.Context, table *router.Table) (*Report, error) {
	if err := b.begin(); err != nil {
		return nil, err
	}

	start := time.Now()
	outputRoot := b.config.OutputPath()

	report := &Report{
		Routes:    table.Len(),
		OutputDir: outputRoot,
		Warnings:  append([]string(nil), table.Warnings()...),
	}
	for _, w := range table.Warnings() {
		b.logger.Warn(w)
	}

	ctx, span := startSpan(ctx, "statica.build",
		attribute.Int("statica.routes", table.Len()))

	if table.Len() == 0 {
		b.progress("No routes to build")
		report.Duration = time.Since(start)
		b.setState(StateDone)
		endSpan(span, nil)
		return report, nil
	}

	prev := snapshotHTMLPaths(table)
	fail := func(err error) (*Report, error) {
		restoreHTMLPaths(prev)
		b.setState(StateFailed)
		endSpan(span, err)
		return nil, err
	}

	if b.defaultSession && b.config.Build.Bundler.Command == "" {
		return fail(errors.New("S402"))
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	b.progress("Preparing output directory...")
	if err := os.MkdirAll(outputRoot, 0755); err != nil {
		return fail(errors.Newf(errors.CategoryBuild, "create output directory: %v", err))
	}

	b.progress("Rendering default template...")
	defaultTemplate := filepath.Join(b.config.Dir(), ".statica", "document.html")
	if err := templates.RenderFile(defaultTemplate, templates.Data{Title: b.config.Name}); err != nil {
		return fail(errors.Newf(errors.CategoryBuild, "render default template: %v", err))
	}

	session := b.options.NewBundler()

	b.progress("Registering routes...")
	cfgCtx, cfgSpan := startSpan(ctx, "statica.build.configure")

	g, gctx := errgroup.WithContext(cfgCtx)
	g.SetLimit(b.concurrency())
	for _, route := range table.Routes() {
		route := route
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			session.RegisterEntry(route.Name, []string{
				filepath.Join(b.config.PagesPath(), route.Component),
			})
			if !route.Prerender {
				return nil
			}

			template, err := b.resolveTemplate(route, defaultTemplate)
			if err != nil {
				return err
			}
			session.RegisterPlugin(bundler.HTMLPlugin{
				Filename: route.Name + ".html",
				Template: template,
				Entry:    route.Name,
			})
			route.HTMLPath = filepath.Join(outputRoot, route.Name+".html")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		endSpan(cfgSpan, err)
		return fail(err)
	}

	// All per-route work has joined; assemble the one skeleton batch in
	// table order.
	var skeletons []bundler.Entry
	prerendered := 0
	for _, route := range table.Routes() {
		if route.Prerender {
			prerendered++
		}
		if route.HasSkeleton() {
			skeletons = append(skeletons, bundler.Entry{
				Name:    route.Name,
				Sources: []string{b.resolvePath(route.Skeleton)},
			})
		}
	}
	if len(skeletons) > 0 {
		session.RegisterPlugin(bundler.SkeletonPlugin{
			Config: bundler.SecondaryConfig{Entries: skeletons},
		})
	}
	report.SkeletonEntries = len(skeletons)
	report.Prerendered = prerendered
	endSpan(cfgSpan, nil)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	b.setState(StateCompiling)
	b.progress("Compiling...")
	cmpCtx, cmpSpan := startSpan(ctx, "statica.build.compile",
		attribute.Int("statica.entries", table.Len()),
		attribute.Int("statica.skeleton_entries", len(skeletons)))

	result, err := session.Compile(cmpCtx)
	if err != nil {
		code := "S400"
		if stderrors.Is(err, bundler.ErrBadOutput) {
			code = "S404"
		}
		serr := errors.New(code).Wrap(err)
		endSpan(cmpSpan, serr)
		return fail(serr)
	}
	if len(result.Errors) > 0 {
		cerr := compileError(result.Errors)
		endSpan(cmpSpan, cerr)
		return fail(cerr)
	}
	endSpan(cmpSpan, nil)

	for _, w := range result.Warnings {
		b.logger.Warn("bundler warning", slog.String("warning", w))
		report.Warnings = append(report.Warnings, w)
	}

	if prerendered > 0 {
		b.progress("Writing build manifest...")
		if err := b.writeManifest(outputRoot, table); err != nil {
			return fail(err)
		}
		report.ManifestPath = filepath.Join(outputRoot, manifest.Filename)
	}

	report.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("statica.prerendered", prerendered),
		attribute.Int("statica.skeleton_entries", len(skeletons)),
		attribute.Int("statica.warnings", len(report.Warnings)),
	)
	endSpan(span, nil)
	b.setState(StateDone)

	b.logger.Info("build finished",
		slog.Duration("duration", report.Duration),
		slog.Int("routes", report.Routes),
		slog.Int("prerendered", prerendered),
		slog.Int("warnings", len(report.Warnings)))

	return report, nil
}

// begin moves the orchestrator into Configuring, rejecting overlapping runs.
func (b *Builder) begin() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateConfiguring || b.state == StateCompiling {
		return errors.New("S405")
	}
	b.state = StateConfiguring
	return nil
}

func (b *Builder) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// resolveTemplate returns the HTML template for a prerendering route. A
// declared custom template must exist; routes without one share fallback.
func (b *Builder) resolveTemplate(route *router.Route, fallback string) (string, error) {
	if !route.HasCustomTemplate() {
		return fallback, nil
	}

	path := route.Template
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.config.TemplatesPath(), path)
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.New("S403").
			WithDetail("Route " + route.Name + " declares template " + route.Template + ", which does not exist").
			WithSuggestion("Create " + path + " or remove the template override").
			Wrap(err)
	}
	return path, nil
}

// resolvePath resolves a config-relative source path.
func (b *Builder) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.config.Dir(), path)
}

func (b *Builder) concurrency() int {
	if b.options.Concurrency > 0 {
		return b.options.Concurrency
	}
	return runtime.NumCPU()
}

// writeManifest records every prerendered artifact in the build manifest.
func (b *Builder) writeManifest(outputRoot string, table *router.Table) error {
	m := manifest.New()
	for _, route := range table.Routes() {
		if !route.Prerender {
			continue
		}

		artifact := manifest.Artifact{
			HTML: route.Name + ".html",
			Hash: route.Hash,
		}
		if body, err := os.ReadFile(route.HTMLPath); err == nil {
			artifact.Size = int64(len(body))
			artifact.Integrity = manifest.Integrity(body)
		} else {
			b.logger.Debug("artifact not readable while writing manifest",
				slog.String("route", route.Name),
				slog.String("path", route.HTMLPath))
		}
		m.Set(route.Name, artifact)
	}

	if err := m.SaveToOutput(outputRoot); err != nil {
		return errors.Newf(errors.CategoryBuild, "write build manifest: %v", err)
	}
	return nil
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// compileError folds bundler diagnostics into one fatal error.
func compileError(errs []string) error {
	e := errors.New("S401").WithDetail(strings.Join(errs, "\n"))
	return e.WithLocationFromError(errors.Newf(errors.CategoryBuild, "%s", errs[0]))
}

func snapshotHTMLPaths(table *router.Table) map[*router.Route]string {
	prev := make(map[*router.Route]string, table.Len())
	for _, route := range table.Routes() {
		prev[route] = route.HTMLPath
	}
	return prev
}

func restoreHTMLPaths(prev map[*router.Route]string) {
	for route, path := range prev {
		route.HTMLPath = path
	}
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
