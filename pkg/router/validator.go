package router

import (
	"fmt"
	"strings"
)

// =============================================================================
// Route Table Validation
// =============================================================================

// ValidationError represents a route table validation error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Files are the page modules involved
	Files []string

	// Route is the route name or pattern involved
	Route string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateName indicates multiple page modules resolve to the same
	// route name. Example: detail/[id].vue and detail/_id_.vue both resolve
	// to "detail-id".
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorMalformedPattern indicates a route path pattern that does not
	// compile. Example: an override path of "/detail/:".
	ErrorMalformedPattern ValidationErrorType = "MALFORMED_PATTERN"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// FormatValidationError formats a validation error for display:
//
//	ERROR: Duplicate route name "detail-id"
//	  detail/[id].vue → detail-id
//	  detail/_id_.vue → detail-id
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ERROR: %s\n", err.Message))

	if len(err.Files) > 0 {
		for _, file := range err.Files {
			sb.WriteString(fmt.Sprintf("  %s → %s\n", file, err.Route))
		}
	}

	if err.Details != "" {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", err.Details))
	}

	return sb.String()
}
