// Package statica compiles a pages directory into a route table at build
// time and serves prerendered documents from a bounded cache at request
// time.
//
// This is the recommended import for serving processes:
//
//	cfg, err := config.LoadFromWorkingDir()
//	engine, err := statica.New(cfg)
//
//	entry, err := engine.Prerendered(ctx, r.URL.Path)
//	if errors.Is(err, prerender.ErrNotPrerendered) {
//	    // fall back to live rendering
//	}
//	w.Header().Set("ETag", entry.ETag)
//	w.Write(entry.Body)
//
// The engine builds the route table from statica.json and the pages
// directory, rebinds prerendered artifact paths from the build manifest
// when one exists, and gates prerender serving on the production
// environment.
package statica

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/statica-dev/statica/internal/config"
	"github.com/statica-dev/statica/internal/errors"
	"github.com/statica-dev/statica/pkg/manifest"
	"github.com/statica-dev/statica/pkg/prerender"
	"github.com/statica-dev/statica/pkg/routepath"
	"github.com/statica-dev/statica/pkg/router"
)

// Engine is the request-time surface over a compiled project: route lookup,
// the prerender gate, and the document cache. Safe for concurrent use.
type Engine struct {
	config   *config.Config
	table    *router.Table
	gate     *prerender.Gate
	cache    *prerender.Cache
	manifest *manifest.Manifest
	logger   *slog.Logger
}

// Option customizes an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger  *slog.Logger
	store   prerender.Store
	metrics *prerender.Metrics
	now     func() time.Time
}

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithStore substitutes the artifact store backing the prerender cache.
func WithStore(s prerender.Store) Option {
	return func(o *engineOptions) { o.store = s }
}

// WithMetrics attaches cache counters to the engine's prerender cache.
func WithMetrics(m *prerender.Metrics) Option {
	return func(o *engineOptions) { o.metrics = m }
}

// WithClock substitutes the clock stamped onto cached entries.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// New builds the route table for cfg's project and wires the prerender
// layer over it.
//
// When the output root holds a build manifest, each prerendering route's
// artifact path is rebound from it, so a serving process picks up the last
// build without rerunning it. A missing manifest is not an error; a
// corrupt one is.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.Newf(errors.CategoryConfig, "nil config")
	}

	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	table, err := router.BuildTableWithOptions(cfg.PagesPath(), cfg.Router.Routes, router.BuildOptions{
		Extensions: cfg.Extensions(),
	})
	if err != nil {
		return nil, tableError(cfg, err)
	}

	e := &Engine{
		config: cfg,
		table:  table,
		logger: o.logger,
		gate: &prerender.Gate{
			Production: cfg.IsProduction(),
			Routes:     table,
		},
		cache: prerender.New(prerender.Options{
			Capacity: cfg.Prerender.Capacity,
			TTL:      cfg.PrerenderTTL(),
			Store:    o.store,
			Logger:   o.logger,
			Metrics:  o.metrics,
			Now:      o.now,
		}),
	}

	if err := e.bindManifest(); err != nil {
		return nil, err
	}

	return e, nil
}

// bindManifest rebinds route artifact paths from the build manifest, when
// the output root has one.
func (e *Engine) bindManifest() error {
	outputRoot := e.config.OutputPath()
	m, err := manifest.LoadFromOutput(outputRoot)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("no build manifest; routes serve without prerendered artifacts",
				slog.String("output", outputRoot))
			return nil
		}
		return errors.New("S302").
			WithDetail("Failed to load " + filepath.Join(outputRoot, manifest.Filename) + ": " + err.Error()).
			Wrap(err)
	}

	bound := 0
	for _, route := range e.table.Routes() {
		if !route.Prerender {
			continue
		}
		artifact, ok := m.Resolve(route.Name)
		if !ok {
			e.logger.Warn("prerendering route absent from build manifest",
				slog.String("route", route.Name))
			continue
		}
		route.HTMLPath = filepath.Join(outputRoot, filepath.FromSlash(artifact.HTML))
		bound++
	}

	e.manifest = m
	e.logger.Debug("build manifest loaded",
		slog.Int("artifacts", bound),
		slog.Time("builtAt", m.BuiltAt()))
	return nil
}

// tableError maps table construction failures onto coded errors.
func tableError(cfg *config.Config, err error) error {
	var multi *router.MultiValidationError
	if stderrors.As(err, &multi) && len(multi.Errors) > 0 {
		code := "S200"
		if multi.Errors[0].Type == router.ErrorDuplicateName {
			code = "S201"
		}
		return errors.New(code).WithDetail(multi.Error()).Wrap(err)
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.New("S203").
			WithDetail("Pages directory " + cfg.PagesPath() + " does not exist").
			WithSuggestion("Create the pages directory or adjust paths.pages in statica.json").
			Wrap(err)
	}
	return err
}

// Config returns the engine's project configuration.
func (e *Engine) Config() *config.Config {
	return e.config
}

// Table returns the compiled route table.
func (e *Engine) Table() *router.Table {
	return e.table
}

// Routes returns the routes in table order.
func (e *Engine) Routes() []*router.Route {
	return e.table.Routes()
}

// Route returns the route with the given name.
func (e *Engine) Route(name string) (*router.Route, error) {
	route, ok := e.table.Get(name)
	if !ok {
		return nil, errors.New("S202").
			WithDetail("No route named \"" + name + "\" exists in the table")
	}
	return route, nil
}

// FindRoute returns the first route matching the request path, after
// normalization. Paths that fail normalization match nothing.
func (e *Engine) FindRoute(requestPath string) (*router.Route, bool) {
	normalized, err := normalize(requestPath)
	if err != nil {
		return nil, false
	}
	return e.table.FindMatch(normalized)
}

// ShouldPrerender reports whether the request path serves from the
// prerender cache, and for which route.
func (e *Engine) ShouldPrerender(requestPath string) (*router.Route, bool) {
	normalized, err := normalize(requestPath)
	if err != nil {
		return nil, false
	}
	return e.gate.ShouldPrerender(normalized)
}

// Prerendered returns the cached prerendered document for the request path.
//
// Paths the gate refuses (development mode, unmatched paths, routes not
// marked for prerendering) and artifacts that cannot be read all degrade to
// an error satisfying errors.Is(err, prerender.ErrNotPrerendered); callers
// fall back to live rendering.
func (e *Engine) Prerendered(ctx context.Context, requestPath string) (*prerender.Entry, error) {
	normalized, err := normalize(requestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", prerender.ErrNotPrerendered, requestPath, err)
	}

	route, ok := e.gate.ShouldPrerender(normalized)
	if !ok {
		return nil, fmt.Errorf("%w: %s", prerender.ErrNotPrerendered, normalized)
	}

	entry, err := e.cache.Get(ctx, normalized, route.HTMLPath)
	if err != nil {
		code := "S301"
		if stderrors.Is(err, fs.ErrNotExist) {
			code = "S300"
		}
		return nil, errors.New(code).
			WithDetail("Route " + route.Name + ", artifact " + route.HTMLPath).
			Wrap(err)
	}
	return entry, nil
}

// Cache returns the prerender cache, for invalidation after republishing
// artifacts.
func (e *Engine) Cache() *prerender.Cache {
	return e.cache
}

// Manifest returns the loaded build manifest, or nil when the output root
// had none.
func (e *Engine) Manifest() *manifest.Manifest {
	return e.manifest
}

func normalize(requestPath string) (string, error) {
	res, err := routepath.NormalizePath(requestPath)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}
