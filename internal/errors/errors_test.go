package errors

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSeverityString(t *testing.T) {
	testCases := []struct {
		severity ErrorSeverity
		expected string
	}{
		{ErrorSeverityInfo, "info"},
		{ErrorSeverityWarning, "warning"},
		{ErrorSeverityError, "error"},
		{ErrorSeverity(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.severity.String())
		})
	}
}

func TestBuildErrorError(t *testing.T) {
	withFile := BuildError{File: "docs/intro.md", Line: 4, Message: "broken link", Severity: ErrorSeverityWarning}
	assert.Equal(t, "docs/intro.md:4: warning: broken link", withFile.Error())

	routeOnly := BuildError{Route: "/", Message: "broken link /docs/x", Severity: ErrorSeverityError}
	assert.Equal(t, "/: error: broken link /docs/x", routeOnly.Error())
}

func TestErrorCollector(t *testing.T) {
	collector := NewErrorCollector()
	assert.False(t, collector.HasErrors())

	collector.Add(BuildError{Route: "/", Message: "a"})
	collector.Add(BuildError{Route: "/docs/x", Message: "b"})
	collector.Add(BuildError{Route: "/", Message: "c"})

	assert.True(t, collector.HasErrors())
	assert.Len(t, collector.GetErrors(), 3)
	assert.Len(t, collector.GetErrorsByRoute("/"), 2)
	assert.False(t, collector.GetErrors()[0].Timestamp.IsZero())

	collector.Clear()
	assert.False(t, collector.HasErrors())
}

func TestErrorCollector_Concurrent(t *testing.T) {
	collector := NewErrorCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			collector.Add(BuildError{Route: fmt.Sprintf("/p%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, collector.GetErrors(), 50)
}

func TestSiteError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewIOError(ErrCodeWriteFailed, "write page", cause).
		WithRoute("/docs/intro").
		WithFile("out/docs/intro/index.html", 0)

	assert.Equal(t, "[ERR_WRITE_FAILED] route:/docs/intro out/docs/intro/index.html write page: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("build: %w", err)
	assert.True(t, stderrors.Is(wrapped, &SiteError{Type: ErrorTypeIO, Code: ErrCodeWriteFailed}))
	assert.False(t, stderrors.Is(wrapped, &SiteError{Type: ErrorTypeLink, Code: ErrCodeWriteFailed}))

	var se *SiteError
	require.True(t, stderrors.As(wrapped, &se))
	assert.Equal(t, "/docs/intro", se.Route)
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, IsConfigError(NewConfigError(ErrCodeConfigInvalid, "x")))
	assert.True(t, IsLinkError(fmt.Errorf("wrap: %w", NewLinkError(ErrCodeBrokenLinks, "x"))))
	assert.True(t, IsBuildError(NewBuildError(ErrCodeRenderFailed, "x", nil)))
	assert.False(t, IsLinkError(stderrors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewContentError(ErrCodeFrontMatter, "bad yaml", nil).WithContext("key", "title")
	assert.Equal(t, "title", err.Context["key"])
}

func TestErrorOverlay(t *testing.T) {
	assert.Empty(t, ErrorOverlay(nil))

	overlay := ErrorOverlay(stderrors.New("broken <a href>\nsecond line"))
	assert.Contains(t, overlay, "Build failed")
	assert.Contains(t, overlay, "broken &lt;a href&gt;")
	assert.Contains(t, overlay, "second line")
}
