package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI styles used by the terminal formatter.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

// colorEnabled controls whether ANSI styling is emitted.
var colorEnabled = true

// DisableColors turns off ANSI styling, for dumb terminals, NO_COLOR and
// tests.
func DisableColors() { colorEnabled = false }

// EnableColors turns ANSI styling back on.
func EnableColors() { colorEnabled = true }

// style wraps text in the given ANSI codes when styling is enabled.
func style(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders the error for terminal display: a header line, the source
// location with its surrounding lines, the detail paragraph, a hint, an
// example and the documentation link. Sections the error does not carry are
// simply omitted.
func (e *StaticaError) Format() string {
	var b strings.Builder

	header := "ERROR: "
	if e.Code != "" {
		header = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", style(header, ansiBold, ansiRed), e.Message)

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", style(e.Location.String(), ansiCyan))
		e.writeContext(&b)
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", style("Hint: ", ansiCyan), e.Suggestion)
	}

	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", style("Example:", ansiCyan))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", style("Learn more: ", ansiGray), style(e.DocURL, ansiBlue))
	}

	return b.String()
}

// writeContext prints the source lines around the location, pointing at the
// offending line and, when known, the offending column.
func (e *StaticaError) writeContext(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}

	first := e.Location.Line - len(e.Context)/2
	gutter := style(" │ ", ansiGray)
	for i, line := range e.Context {
		num := first + i
		if num != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", num, gutter, line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", style("→ ", ansiRed), num, gutter, line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n",
				style("│ ", ansiGray),
				strings.Repeat(" ", e.Location.Column-1),
				style("^", ansiRed))
		}
	}
	b.WriteString("\n")
}

// FormatCompact renders the error on a single line, for logs and listings.
func (e *StaticaError) FormatCompact() string {
	var parts []string
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// FormatJSON renders the error as one JSON object, for tooling that consumes
// build output. The wrapped cause is folded into the detail rather than
// serialized.
func (e *StaticaError) FormatJSON() string {
	wire := struct {
		Code       string    `json:"code,omitempty"`
		Category   Category  `json:"category"`
		Message    string    `json:"message"`
		Detail     string    `json:"detail,omitempty"`
		Location   *Location `json:"location,omitempty"`
		Suggestion string    `json:"suggestion,omitempty"`
		DocURL     string    `json:"docUrl,omitempty"`
	}{e.Code, e.Category, e.Message, e.Detail, e.Location, e.Suggestion, e.DocURL}

	out, err := json.Marshal(wire)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(out)
}

// wrapText greedily wraps text into lines of at most width characters.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := lines[len(lines)-1]
		if len(last)+1+len(word) > width {
			lines = append(lines, word)
		} else {
			lines[len(lines)-1] = last + " " + word
		}
	}
	return lines
}

// PrintError renders err to stderr, using the rich formatter when a coded
// error is anywhere in the chain.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError renders err to w.
func FprintError(w io.Writer, err error) {
	var se *StaticaError
	if stderrors.As(err, &se) {
		fmt.Fprint(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", style("ERROR:", ansiBold, ansiRed), err)
}
