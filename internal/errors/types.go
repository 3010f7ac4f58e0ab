package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeContent ErrorType = "content"
	ErrorTypeBuild   ErrorType = "build"
	ErrorTypeLink    ErrorType = "link"
	ErrorTypeIO      ErrorType = "io"
	ErrorTypeServer  ErrorType = "server"
)

// SiteError is a structured error type with context.
type SiteError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	FilePath string
	Route    string
	Line     int
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Route != "" {
		parts = append(parts, "route:"+e.Route)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a SiteError of the same type and code.
func (e *SiteError) Is(target error) bool {
	var t *SiteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value interface{}) *SiteError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds file location information.
func (e *SiteError) WithFile(filePath string, line int) *SiteError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// WithRoute attaches the site route the error belongs to.
func (e *SiteError) WithRoute(route string) *SiteError {
	e.Route = route

	return e
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SiteError {
	return &SiteError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewContentError creates a content (docs, front matter) error.
func NewContentError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeContent, Code: code, Message: message, Cause: cause}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeBuild, Code: code, Message: message, Cause: cause}
}

// NewLinkError creates a broken link error.
func NewLinkError(code, message string) *SiteError {
	return &SiteError{Type: ErrorTypeLink, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewServerError creates a development server error.
func NewServerError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeServer, Code: code, Message: message, Cause: cause}
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsLinkError checks if an error reports broken links.
func IsLinkError(err error) bool {
	return hasType(err, ErrorTypeLink)
}

// IsBuildError checks if an error is build-related.
func IsBuildError(err error) bool {
	return hasType(err, ErrorTypeBuild)
}

func hasType(err error, t ErrorType) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Type == t
	}

	return false
}

// Common error codes.
const (
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
	ErrCodeConfigLoad         = "ERR_CONFIG_LOAD"
	ErrCodeFrontMatter        = "ERR_FRONT_MATTER"
	ErrCodeMarkdown           = "ERR_MARKDOWN"
	ErrCodeDuplicateRoute     = "ERR_DUPLICATE_ROUTE"
	ErrCodeRenderFailed       = "ERR_RENDER_FAILED"
	ErrCodeReadFailed         = "ERR_READ_FAILED"
	ErrCodeWriteFailed        = "ERR_WRITE_FAILED"
	ErrCodeBrokenLinks        = "ERR_BROKEN_LINKS"
	ErrCodeBrokenMarkdownLink = "ERR_BROKEN_MARKDOWN_LINKS"
	ErrCodePathTraversal      = "ERR_PATH_TRAVERSAL"
	ErrCodeListen             = "ERR_LISTEN"
)
