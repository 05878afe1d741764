package errors

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryRouting   Category = "routing"
	CategoryPrerender Category = "prerender"
	CategoryBuild     Category = "build"
	CategoryPublish   Category = "publish"
	CategoryCLI       Category = "cli"
)

// Location represents a source location in a project file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// StaticaError is a structured error with source location, suggestions, and documentation.
type StaticaError struct {
	// Code is a unique error identifier (e.g., "S201").
	Code string

	// Category is the error type (config, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the project file location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is configuration or code showing the correct approach.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StaticaError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StaticaError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a source location to the error.
func (e *StaticaError) WithLocation(file string, line, column int) *StaticaError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromError extracts a location from a bundler diagnostic.
// Bundlers report positions in the common "file:line:column: message" format.
func (e *StaticaError) WithLocationFromError(err error) *StaticaError {
	if err == nil {
		return e
	}
	msg := err.Error()
	parts := strings.SplitN(msg, ":", 4)
	if len(parts) >= 3 {
		var line, col int
		fmt.Sscanf(parts[1], "%d", &line)
		fmt.Sscanf(parts[2], "%d", &col)
		if line > 0 {
			e.Location = &Location{File: parts[0], Line: line, Column: col}
			e.Context = readContextLines(parts[0], line, 5)
		}
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StaticaError) WithSuggestion(s string) *StaticaError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *StaticaError) WithExample(ex string) *StaticaError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *StaticaError) WithDetail(d string) *StaticaError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *StaticaError) WithContext(lines []string) *StaticaError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *StaticaError) Wrap(err error) *StaticaError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a StaticaError from a registered error code.
func New(code string) *StaticaError {
	template, ok := registry[code]
	if !ok {
		return &StaticaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StaticaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new StaticaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *StaticaError {
	return &StaticaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a StaticaError.
func FromError(err error, code string) *StaticaError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*StaticaError); ok {
		return se
	}
	return New(code).Wrap(err)
}

// HasCategory reports whether err is a StaticaError of the given category,
// inspecting the wrap chain.
func HasCategory(err error, cat Category) bool {
	for err != nil {
		if se, ok := err.(*StaticaError); ok && se.Category == cat {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
