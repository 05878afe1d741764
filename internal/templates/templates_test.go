package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderDefaults(t *testing.T) {
	out, err := Render(Data{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Statica App</title>",
		`<div id="app">`,
		SkeletonPlaceholder,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered shell missing %q", want)
		}
	}
}

func TestRenderCustomData(t *testing.T) {
	out, err := Render(Data{Title: "My Shop", Lang: "zh-CN"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "<title>My Shop</title>") {
		t.Errorf("rendered shell missing custom title, got:\n%s", html)
	}
	if !strings.Contains(html, `<html lang="zh-CN">`) {
		t.Errorf("rendered shell missing custom lang, got:\n%s", html)
	}
}

func TestRenderEscapesTitle(t *testing.T) {
	out, err := Render(Data{Title: `<script>alert("x")</script>`})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := string(out)

	if strings.Contains(html, `<script>alert`) {
		t.Error("rendered shell contains unescaped script tag")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("rendered shell missing escaped title, got:\n%s", html)
	}
}

func TestRenderFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work", "templates", "document.html")

	if err := RenderFile(path, Data{Title: "Nested"}); err != nil {
		t.Fatalf("RenderFile() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rendered file: %v", err)
	}
	if !strings.Contains(string(raw), "<title>Nested</title>") {
		t.Error("rendered file missing title")
	}
}

func TestDefaultShellIsComplete(t *testing.T) {
	shell := Default()
	if !strings.Contains(shell, "{{.Title}}") || !strings.Contains(shell, "{{.Lang}}") {
		t.Error("embedded shell missing template slots")
	}
	if !strings.Contains(shell, SkeletonPlaceholder) {
		t.Error("embedded shell missing skeleton placeholder")
	}
}
