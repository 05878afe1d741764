package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/statica-dev/statica/internal/errors"
	"github.com/statica-dev/statica/pkg/router"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %s", code)
	}
	var serr *errors.StaticaError
	if !stderrors.As(err, &serr) {
		t.Fatalf("error %v is not a StaticaError", err)
	}
	if serr.Code != code {
		t.Errorf("error code = %s, want %s", serr.Code, code)
	}
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.Paths.Pages != DefaultPages {
		t.Errorf("Paths.Pages = %q, want %q", cfg.Paths.Pages, DefaultPages)
	}
	if cfg.Paths.Output != DefaultOutput {
		t.Errorf("Paths.Output = %q, want %q", cfg.Paths.Output, DefaultOutput)
	}
	if cfg.Prerender.Capacity != DefaultCacheCapacity {
		t.Errorf("Prerender.Capacity = %d, want %d", cfg.Prerender.Capacity, DefaultCacheCapacity)
	}
	if cfg.Prerender.TTL != DefaultCacheTTL {
		t.Errorf("Prerender.TTL = %q, want %q", cfg.Prerender.TTL, DefaultCacheTTL)
	}
	if !cfg.Build.Minify {
		t.Error("Build.Minify = false, want true")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false by default")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	assertCode(t, err, "S103")

	writeConfig(t, tmpDir, `{
  "name": "my-shop",
  "env": "production",
  "paths": {
    "pages": "src/pages",
    "output": "build",
    "pageExtensions": [".vue"]
  },
  "router": {
    "routes": [
      {"name": "home", "path": "/", "prerender": true},
      {"name": "detail-id", "skeleton": "skeleton/detail.vue", "chunkname": "detail", "lazyLoading": false}
    ]
  },
  "prerender": {
    "capacity": 64,
    "ttl": "1m"
  },
  "build": {
    "bundler": {"command": "statica-bundler", "args": ["--quiet"]},
    "minify": true,
    "concurrency": 2
  },
  "publish": {
    "bucket": "my-shop-site",
    "prefix": "site/",
    "region": "us-east-1"
  }
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "my-shop" {
		t.Errorf("Name = %q, want my-shop", cfg.Name)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Paths.Pages != "src/pages" {
		t.Errorf("Paths.Pages = %q, want src/pages", cfg.Paths.Pages)
	}
	if got := cfg.Extensions(); len(got) != 1 || got[0] != ".vue" {
		t.Errorf("Extensions() = %v, want [.vue]", got)
	}

	if len(cfg.Router.Routes) != 2 {
		t.Fatalf("Router.Routes = %d entries, want 2", len(cfg.Router.Routes))
	}
	home := cfg.Router.Routes[0]
	if home.Name != "home" || home.Path != "/" {
		t.Errorf("first override = %+v, want home -> /", home)
	}
	if home.Prerender == nil || !*home.Prerender {
		t.Error("home override prerender = nil/false, want true")
	}
	detail := cfg.Router.Routes[1]
	if detail.Skeleton != "skeleton/detail.vue" || detail.Chunkname != "detail" {
		t.Errorf("detail override = %+v, want skeleton+chunkname", detail)
	}
	if detail.LazyLoading == nil || *detail.LazyLoading {
		t.Error("detail override lazyLoading = nil/true, want explicit false")
	}

	if cfg.Prerender.Capacity != 64 {
		t.Errorf("Prerender.Capacity = %d, want 64", cfg.Prerender.Capacity)
	}
	if got := cfg.PrerenderTTL(); got != time.Minute {
		t.Errorf("PrerenderTTL() = %v, want 1m", got)
	}
	if cfg.Build.Bundler.Command != "statica-bundler" {
		t.Errorf("Build.Bundler.Command = %q, want statica-bundler", cfg.Build.Bundler.Command)
	}
	if cfg.Build.Concurrency != 2 {
		t.Errorf("Build.Concurrency = %d, want 2", cfg.Build.Concurrency)
	}
	if cfg.Publish.Bucket != "my-shop-site" {
		t.Errorf("Publish.Bucket = %q, want my-shop-site", cfg.Publish.Bucket)
	}

	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadSparseFileGetsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"name": "bare"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want development default", cfg.Env)
	}
	if cfg.Paths.Output != DefaultOutput {
		t.Errorf("Paths.Output = %q, want %q", cfg.Paths.Output, DefaultOutput)
	}
	if cfg.Prerender.Capacity != DefaultCacheCapacity {
		t.Errorf("Prerender.Capacity = %d, want default", cfg.Prerender.Capacity)
	}
	if got := cfg.PrerenderTTL(); got != 15*time.Minute {
		t.Errorf("PrerenderTTL() = %v, want 15m default", got)
	}
}

func TestLoadRejectsUnknownTopLevelField(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"name": "x", "rooter": {}}`)

	_, err := Load(tmpDir)
	assertCode(t, err, "S102")
}

func TestLoadRejectsUnknownOverrideField(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{
  "router": {
    "routes": [{"name": "home", "prerendered": true}]
  }
}`)

	_, err := Load(tmpDir)
	assertCode(t, err, "S102")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"name": `)

	_, err := Load(tmpDir)
	assertCode(t, err, "S100")
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"env": "staging"}`)

	_, err := Load(tmpDir)
	assertCode(t, err, "S104")
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"prerender": {"ttl": "fortnight"}}`)

	_, err := Load(tmpDir)
	assertCode(t, err, "S105")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "round-trip"
	cfg.Env = EnvProduction
	prerender := true
	cfg.Router.Routes = []router.Override{{Name: "home", Path: "/", Prerender: &prerender}}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Name != "round-trip" {
		t.Errorf("Name = %q, want round-trip", loaded.Name)
	}
	if !loaded.IsProduction() {
		t.Error("IsProduction() = false after round trip, want true")
	}
	if len(loaded.Router.Routes) != 1 {
		t.Fatalf("Router.Routes = %d entries after round trip, want 1", len(loaded.Router.Routes))
	}
	got := loaded.Router.Routes[0]
	if got.Name != "home" || got.Path != "/" || got.Prerender == nil || !*got.Prerender {
		t.Errorf("override after round trip = %+v, want home///prerender", got)
	}
}

func TestPathHelpers(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"paths": {"pages": "web/pages"}}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got, want := cfg.PagesPath(), filepath.Join(tmpDir, "web/pages"); got != want {
		t.Errorf("PagesPath() = %q, want %q", got, want)
	}
	if got, want := cfg.OutputPath(), filepath.Join(tmpDir, DefaultOutput); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
	if got, want := cfg.TemplatesPath(), filepath.Join(tmpDir, DefaultTemplates); got != want {
		t.Errorf("TemplatesPath() = %q, want %q", got, want)
	}

	abs := t.TempDir()
	cfg.Paths.Output = abs
	if got := cfg.OutputPath(); got != abs {
		t.Errorf("OutputPath() with absolute config = %q, want %q", got, abs)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"name": "nested"}`)

	nested := filepath.Join(root, "pages", "detail")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	// The temp dir may sit behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(found)
	if gotResolved != wantResolved {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}

	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("FindProjectRoot without statica.json = nil error, want S103")
	}
}
