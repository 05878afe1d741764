// Package manifest records what a build produced.
//
// After a successful run the orchestrator writes statica-manifest.json into
// the output root, mapping each route name to its prerendered document:
//
//	{
//	  "builtAt": "2026-08-21T10:30:00Z",
//	  "routes": {
//	    "home":      {"html": "home.html", "hash": "_106a6c24...", "size": 2048, "integrity": "sha256-..."},
//	    "detail-id": {"html": "detail-id.html", "hash": "ac8e138a...", "size": 4096, "integrity": "sha256-..."}
//	  }
//	}
//
// A serving process loads the manifest at startup to rebind artifact paths
// without rerunning the build:
//
//	m, _ := manifest.LoadFromOutput("dist")
//	artifact, ok := m.Resolve("home")
package manifest

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Filename is the manifest's name inside the output root.
const Filename = "statica-manifest.json"

// Artifact describes one prerendered document.
type Artifact struct {
	// HTML is the document path relative to the output root.
	HTML string `json:"html"`

	// Hash is the route's content-addressable identifier.
	Hash string `json:"hash"`

	// Size is the document size in bytes.
	Size int64 `json:"size"`

	// Integrity is a subresource-integrity digest of the document.
	Integrity string `json:"integrity"`
}

// Manifest maps route names to build artifacts. It is safe for concurrent
// use.
type Manifest struct {
	mu      sync.RWMutex
	builtAt time.Time
	entries map[string]Artifact
}

type fileManifest struct {
	BuiltAt time.Time           `json:"builtAt"`
	Routes  map[string]Artifact `json:"routes"`
}

// New creates an empty manifest stamped with the current time.
func New() *Manifest {
	return &Manifest{
		builtAt: time.Now().UTC(),
		entries: make(map[string]Artifact),
	}
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file fileManifest
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Routes == nil {
		file.Routes = make(map[string]Artifact)
	}

	return &Manifest{builtAt: file.BuiltAt, entries: file.Routes}, nil
}

// LoadFromOutput reads the manifest from its conventional place in an
// output root.
func LoadFromOutput(outputRoot string) (*Manifest, error) {
	return Load(filepath.Join(outputRoot, Filename))
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	m.mu.RLock()
	file := fileManifest{
		BuiltAt: m.builtAt,
		Routes:  make(map[string]Artifact, len(m.entries)),
	}
	for name, artifact := range m.entries {
		file.Routes[name] = artifact
	}
	m.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// SaveToOutput writes the manifest to its conventional place in an output
// root.
func (m *Manifest) SaveToOutput(outputRoot string) error {
	return m.Save(filepath.Join(outputRoot, Filename))
}

// Set records the artifact for a route name.
func (m *Manifest) Set(name string, artifact Artifact) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[name] = artifact
}

// Resolve returns the artifact recorded for a route name.
func (m *Manifest) Resolve(name string) (Artifact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	artifact, ok := m.entries[name]
	return artifact, ok
}

// Has reports whether the manifest records the given route name.
func (m *Manifest) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[name]
	return ok
}

// Len returns the number of recorded routes.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of every recorded artifact.
func (m *Manifest) All() map[string]Artifact {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]Artifact, len(m.entries))
	for name, artifact := range m.entries {
		result[name] = artifact
	}
	return result
}

// BuiltAt returns the build timestamp.
func (m *Manifest) BuiltAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.builtAt
}

// Integrity computes the subresource-integrity digest for a document body.
func Integrity(body []byte) string {
	sum := sha256.Sum256(body)
	return "sha256-" + base64.StdEncoding.EncodeToString(sum[:])
}
