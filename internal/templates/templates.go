// Package templates carries the default HTML document shell used for routes
// that declare no custom template.
//
// The shell is a minimal mobile-ready document with a mount point and a
// skeleton placeholder. The build orchestrator renders it per project and
// hands the materialized file to the bundler's HTML output plugin:
//
//	path := filepath.Join(workDir, "document.html")
//	err := templates.RenderFile(path, templates.Data{Title: cfg.Name})
package templates

import (
	"bytes"
	_ "embed"
	"html/template"
	"os"
	"path/filepath"
)

// SkeletonPlaceholder marks where skeleton markup is injected inside the
// mount point.
const SkeletonPlaceholder = "<!-- statica:skeleton -->"

//go:embed document.html
var defaultDocument string

var documentTemplate = template.Must(template.New("document").Parse(defaultDocument))

// Data parameterizes the default document shell.
type Data struct {
	// Title is the document title.
	Title string

	// Lang is the html element's language attribute.
	Lang string
}

// Default returns the raw embedded shell.
func Default() string {
	return defaultDocument
}

// Render renders the shell for data. Empty fields fall back to a generic
// title and English.
func Render(data Data) ([]byte, error) {
	if data.Title == "" {
		data.Title = "Statica App"
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderFile materializes the rendered shell at path, creating parent
// directories as needed.
func RenderFile(path string, data Data) error {
	out, err := Render(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
