// Package errors provides the typed errors used across the site generator and
// a collector for the findings (broken links, front matter problems) that a
// build accumulates before deciding whether to fail.
package errors

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"time"
)

// BuildError is a single problem found while building the site.
type BuildError struct {
	Route     string
	File      string
	Line      int
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (be *BuildError) Error() string {
	location := be.Route
	if be.File != "" {
		location = be.File
		if be.Line > 0 {
			location = fmt.Sprintf("%s:%d", be.File, be.Line)
		}
	}
	return fmt.Sprintf("%s: %s: %s", location, be.Severity, be.Message)
}

// ErrorCollector collects build errors from concurrent page renders.
type ErrorCollector struct {
	buildErrors []BuildError
	mutex       sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		buildErrors: make([]BuildError, 0),
	}
}

// Add adds a build error to the collector
func (ec *ErrorCollector) Add(err BuildError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	ec.buildErrors = append(ec.buildErrors, err)
}

// GetErrors returns all collected build errors
func (ec *ErrorCollector) GetErrors() []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]BuildError, len(ec.buildErrors))
	copy(result, ec.buildErrors)
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.buildErrors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.buildErrors = ec.buildErrors[:0]
}

// GetErrorsByRoute returns errors reported for a specific route
func (ec *ErrorCollector) GetErrorsByRoute(route string) []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var routeErrors []BuildError
	for _, err := range ec.buildErrors {
		if err.Route == route {
			routeErrors = append(routeErrors, err)
		}
	}
	return routeErrors
}

// ErrorOverlay generates the HTML overlay the dev server shows when the last
// rebuild failed. Returns "" when there is nothing to show.
func ErrorOverlay(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div id="notes-error-overlay" style="position:fixed;inset:0;background:rgba(0,0,0,.85);color:#fff;font-family:Menlo,Monaco,monospace;font-size:14px;z-index:9999;padding:20px;overflow:auto">`)
	b.WriteString(`<div style="max-width:1000px;margin:0 auto">`)
	b.WriteString(`<h2 style="margin:0 0 20px;color:#ff6b6b">Build failed</h2>`)
	for _, line := range strings.Split(err.Error(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(`<div style="background:#2d3748;padding:12px;margin-bottom:10px;border-left:4px solid #ff6b6b">`)
		b.WriteString(html.EscapeString(line))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}
