package router

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultExtensions lists the page module extensions the scanner accepts when
// none are configured.
var DefaultExtensions = []string{".vue", ".jsx", ".tsx", ".svelte", ".js"}

// ScannedPage is a page module discovered under the pages root, with its
// derived route identity.
type ScannedPage struct {
	// Name is the derived route name (e.g., "detail-id").
	Name string

	// Path is the derived URL pattern (e.g., "/detail/:id").
	Path string

	// File is the page module path relative to the pages root, in
	// forward-slash form.
	File string
}

// Scanner discovers page modules in a directory tree.
type Scanner struct {
	rootDir    string
	extensions map[string]bool
}

// NewScanner creates a scanner over rootDir. extensions lists the accepted
// page module extensions (with leading dot); nil selects DefaultExtensions.
func NewScanner(rootDir string, extensions []string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	return &Scanner{rootDir: rootDir, extensions: extSet}
}

// Scan walks the pages root and returns the discovered pages in lexical walk
// order. The order is deterministic and becomes the route table's insertion
// order.
//
// Skipped along the way:
//   - dotfiles and dot-directories
//   - directories starting with "_" (shared fragments, not pages)
//   - files starting with "_" unless the underscore opens a parameter
//     segment ("_id_.vue")
//   - files whose extension is not in the accepted set
func (s *Scanner) Scan() ([]ScannedPage, error) {
	var pages []ScannedPage

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == s.rootDir {
				return nil
			}
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !s.extensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		if strings.HasPrefix(name, "_") && !isParamFile(name) {
			return nil
		}

		relPath, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		urlPath, err := s.filePathToURLPath(relPath)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", relPath, err)
		}

		pages = append(pages, ScannedPage{
			Name: routeNameFromPath(urlPath),
			Path: urlPath,
			File: relPath,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir order is lexical per directory; a final sort by file path makes
	// the whole listing deterministic across platforms.
	sort.Slice(pages, func(i, j int) bool { return pages[i].File < pages[j].File })

	return pages, nil
}

// isParamFile reports whether an underscore-prefixed file name is parameter
// notation ("_id_.vue") rather than a reserved fragment ("_header.vue").
func isParamFile(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasPrefix(base, "_") && strings.HasSuffix(base, "_") && len(base) > 2
}

// filePathToURLPath converts a page module path to a URL pattern.
// Supports two dynamic segment conventions:
//
//  1. Bracket notation: [id].vue → :id
//  2. Underscore notation: _id_.vue → :id
//
// Examples:
//   - index.vue → /
//   - home.vue → /home
//   - detail/_id_.vue → /detail/:id
//   - shop/[category]/[item].vue → /shop/:category/:item
func (s *Scanner) filePathToURLPath(relPath string) (string, error) {
	path := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	path = strings.ReplaceAll(path, "\\", "/")

	// Index files collapse to their directory.
	if strings.HasSuffix(path, "/index") {
		path = strings.TrimSuffix(path, "/index")
	}
	if path == "index" {
		path = ""
	}

	path, err := s.convertParams(path)
	if err != nil {
		return "", err
	}

	if path == "" {
		return "/", nil
	}
	return "/" + path, nil
}

// convertParams converts dynamic segment notation to pattern notation.
//
//   - [id] → :id
//   - _id_ → :id
//
// Catch-all notation ([...slug], _slug___) is rejected: a parameter matches
// exactly one segment.
func (s *Scanner) convertParams(path string) (string, error) {
	if strings.Contains(path, "[...") || strings.Contains(path, "___") {
		return "", fmt.Errorf("catch-all segments are not supported: %q", path)
	}

	bracketRe := regexp.MustCompile(`\[(\w+)\]`)
	result := bracketRe.ReplaceAllString(path, ":$1")

	underscoreRe := regexp.MustCompile(`_(\w+)_`)
	result = underscoreRe.ReplaceAllString(result, ":$1")

	if strings.Contains(result, "[") || strings.Contains(result, "]") {
		return "", fmt.Errorf("unbalanced bracket segment: %q", path)
	}

	return result, nil
}

// routeNameFromPath derives the route name from a URL pattern: segments
// joined with "-", parameter markers dropped. The root pattern maps to
// "index".
//
//   - / → index
//   - /home → home
//   - /detail/:id → detail-id
func routeNameFromPath(urlPath string) string {
	trimmed := strings.Trim(urlPath, "/")
	if trimmed == "" {
		return "index"
	}
	name := strings.ReplaceAll(trimmed, "/", "-")
	name = strings.ReplaceAll(name, ":", "")
	return name
}
