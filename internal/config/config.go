package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/statica-dev/statica/internal/errors"
	"github.com/statica-dev/statica/pkg/router"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statica.json"

	// EnvProduction enables prerender serving and production builds.
	EnvProduction = "production"

	// EnvDevelopment disables prerender serving so edits show up live.
	EnvDevelopment = "development"

	// DefaultPages is the default pages directory.
	DefaultPages = "pages"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultTemplates is the default custom template directory.
	DefaultTemplates = "templates"

	// DefaultCacheCapacity is the default prerender cache capacity.
	DefaultCacheCapacity = 1024

	// DefaultCacheTTL is the default prerender cache entry lifetime.
	DefaultCacheTTL = "15m"
)

// Config represents the complete statica.json configuration. The schema is
// closed: unknown fields anywhere in the document are load errors.
type Config struct {
	// Name is the project name, used as the default document title.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Env selects production or development behavior.
	Env string `json:"env,omitempty"`

	// Paths contains project directory configuration.
	Paths PathsConfig `json:"paths,omitempty"`

	// Router contains route table configuration.
	Router RouterConfig `json:"router,omitempty"`

	// Prerender contains prerender cache configuration.
	Prerender PrerenderConfig `json:"prerender,omitempty"`

	// Build contains build orchestration configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Publish contains object store upload configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PathsConfig contains project directory configuration.
type PathsConfig struct {
	// Pages is the page component directory.
	Pages string `json:"pages,omitempty"`

	// Output is the build output directory.
	Output string `json:"output,omitempty"`

	// Templates is the custom HTML template directory.
	Templates string `json:"templates,omitempty"`

	// PageExtensions lists the file extensions scanned as pages.
	PageExtensions []string `json:"pageExtensions,omitempty"`
}

// RouterConfig contains route table configuration.
type RouterConfig struct {
	// Routes are per-route overrides applied over scanned defaults,
	// matched by route name.
	Routes []router.Override `json:"routes,omitempty"`
}

// PrerenderConfig contains prerender cache configuration.
type PrerenderConfig struct {
	// Capacity bounds the number of cached documents.
	Capacity int `json:"capacity,omitempty"`

	// TTL is each cached document's lifetime as a duration string.
	TTL string `json:"ttl,omitempty"`
}

// BuildConfig contains build orchestration configuration.
type BuildConfig struct {
	// Bundler configures the external bundler process.
	Bundler BundlerConfig `json:"bundler,omitempty"`

	// Minify enables asset minification.
	Minify bool `json:"minify,omitempty"`

	// SourceMaps enables source map generation.
	SourceMaps bool `json:"sourceMaps,omitempty"`

	// Concurrency bounds per-route registration workers. Zero selects a
	// limit based on the machine.
	Concurrency int `json:"concurrency,omitempty"`
}

// BundlerConfig configures the external bundler process.
type BundlerConfig struct {
	// Command is the bundler executable.
	Command string `json:"command,omitempty"`

	// Args are fixed arguments passed on every invocation.
	Args []string `json:"args,omitempty"`
}

// PublishConfig contains object store upload configuration.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the object store endpoint, for S3-compatible
	// stores.
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Env:     EnvDevelopment,
		Paths: PathsConfig{
			Pages:     DefaultPages,
			Output:    DefaultOutput,
			Templates: DefaultTemplates,
		},
		Prerender: PrerenderConfig{
			Capacity: DefaultCacheCapacity,
			TTL:      DefaultCacheTTL,
		},
		Build: BuildConfig{
			Minify: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for statica.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("S103").
				WithDetail("No statica.json found in " + filepath.Dir(path)).
				WithSuggestion("Create statica.json at the project root")
		}
		return nil, errors.New("S100").Wrap(err)
	}

	cfg := New()
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, errors.New("S102").
				WithDetail(err.Error()).
				WithSuggestion("Remove the field or check its spelling; statica.json accepts only the documented schema").
				Wrap(err)
		}
		return nil, errors.New("S100").
			WithDetail("Failed to parse statica.json: " + err.Error()).
			WithSuggestion("Check that statica.json is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("S100").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("S100").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.Paths.Pages == "" {
		c.Paths.Pages = DefaultPages
	}
	if c.Paths.Output == "" {
		c.Paths.Output = DefaultOutput
	}
	if c.Paths.Templates == "" {
		c.Paths.Templates = DefaultTemplates
	}
	if c.Prerender.Capacity == 0 {
		c.Prerender.Capacity = DefaultCacheCapacity
	}
	if c.Prerender.TTL == "" {
		c.Prerender.TTL = DefaultCacheTTL
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		return errors.New("S104").
			WithDetail("env is \"" + c.Env + "\"").
			WithSuggestion("Set env to \"production\" or \"development\"")
	}
	if c.Prerender.Capacity < 0 {
		return errors.New("S105").
			WithDetail("prerender.capacity is negative")
	}
	if c.Prerender.TTL != "" {
		if _, err := time.ParseDuration(c.Prerender.TTL); err != nil {
			return errors.New("S105").
				WithDetail("prerender.ttl is not a valid duration: " + c.Prerender.TTL).
				WithSuggestion("Use a Go duration string such as \"15m\" or \"1h30m\"").
				Wrap(err)
		}
	}
	return nil
}

// IsProduction reports whether the project runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Paths.Pages, DefaultPages)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Paths.Output, DefaultOutput)
}

// TemplatesPath returns the absolute path to the custom template directory.
func (c *Config) TemplatesPath() string {
	return c.resolve(c.Paths.Templates, DefaultTemplates)
}

func (c *Config) resolve(path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Extensions returns the configured page extensions, or the scanner's
// defaults when none are set.
func (c *Config) Extensions() []string {
	if len(c.Paths.PageExtensions) > 0 {
		return c.Paths.PageExtensions
	}
	return router.DefaultExtensions
}

// PrerenderTTL returns the parsed cache entry lifetime.
func (c *Config) PrerenderTTL() time.Duration {
	if c.Prerender.TTL == "" {
		c.Prerender.TTL = DefaultCacheTTL
	}
	d, err := time.ParseDuration(c.Prerender.TTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing statica.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("S103").
				WithDetail("No statica.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create statica.json at the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
