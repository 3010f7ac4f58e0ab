package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/text/language"

	"github.com/venkatarajeshjakka/notes/internal/errors"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

func (vr *ValidationResult) addError(field string, value interface{}, msg string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, msg string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("      hint: %s\n", suggestion))
			}
		}
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("      hint: %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

var (
	linkPolicies  = []string{PolicyIgnore, PolicyLog, PolicyWarn, PolicyThrow}
	feedTypes     = []string{"rss", "atom", "json"}
	navPositions  = []string{"left", "right"}
	navItemTypes  = []string{NavItemDocSidebar, NavItemDoc, NavItemLink}
	footerStyles  = []string{"dark", "light"}
	knownPresets  = []string{"classic"}
	knownFormats  = []string{"text", "json"}
	knownLogLevel = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate returns a config error describing every validation failure, or nil.
func Validate(cfg *Config) error {
	result := ValidateWithDetails(cfg)
	if !result.HasErrors() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return errors.NewConfigError(errors.ErrCodeConfigInvalid, strings.Join(msgs, "; "))
}

// ValidateWithDetails performs comprehensive validation with detailed feedback
func ValidateWithDetails(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	validateSite(cfg, result)
	validateI18n(&cfg.I18n, result)
	validatePresets(cfg.Presets, result)
	validateTheme(&cfg.ThemeConfig, result)
	validateServer(&cfg.Server, result)
	validateBuild(&cfg.Build, result)
	validateLog(&cfg.Log, result)

	return result
}

func validateSite(cfg *Config, result *ValidationResult) {
	if strings.TrimSpace(cfg.Title) == "" {
		result.addError("title", cfg.Title, "title is required")
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result.addError("url", cfg.URL, "url must be an absolute http(s) URL",
			"use the production origin, e.g. https://user.github.io")
	} else if u.Path != "" && u.Path != "/" {
		result.addWarning("url", cfg.URL, "url should not contain a path", "move the path into baseUrl")
	}

	if !strings.HasPrefix(cfg.BaseURL, "/") || !strings.HasSuffix(cfg.BaseURL, "/") {
		result.addError("baseUrl", cfg.BaseURL, "baseUrl must start and end with '/'",
			fmt.Sprintf("try %q", "/"+strings.Trim(cfg.BaseURL, "/")+"/"))
	}

	if !slices.Contains(linkPolicies, cfg.OnBrokenLinks) {
		result.addError("onBrokenLinks", cfg.OnBrokenLinks, "unknown policy",
			"valid values: "+strings.Join(linkPolicies, ", "))
	}
	if !slices.Contains(linkPolicies, cfg.OnBrokenMarkdownLinks) {
		result.addError("onBrokenMarkdownLinks", cfg.OnBrokenMarkdownLinks, "unknown policy",
			"valid values: "+strings.Join(linkPolicies, ", "))
	}
}

func validateI18n(i18n *I18nConfig, result *ValidationResult) {
	if len(i18n.Locales) == 0 {
		result.addError("i18n.locales", i18n.Locales, "at least one locale is required")
	}
	for _, loc := range i18n.Locales {
		if _, err := language.Parse(loc); err != nil {
			result.addError("i18n.locales", loc, fmt.Sprintf("invalid locale: %v", err))
		}
	}
	if _, err := language.Parse(i18n.DefaultLocale); err != nil {
		result.addError("i18n.defaultLocale", i18n.DefaultLocale, fmt.Sprintf("invalid locale: %v", err))
	} else if len(i18n.Locales) > 0 && !slices.Contains(i18n.Locales, i18n.DefaultLocale) {
		result.addError("i18n.defaultLocale", i18n.DefaultLocale, "defaultLocale must be listed in locales")
	}
	if len(i18n.Locales) > 1 {
		result.addWarning("i18n.locales", i18n.Locales, "only the default locale is built; other locales are ignored")
	}
}

func validatePresets(presets []Preset, result *ValidationResult) {
	for i, p := range presets {
		field := fmt.Sprintf("presets[%d]", i)
		if !slices.Contains(knownPresets, p.Name) {
			result.addError(field+".name", p.Name, "unknown preset", "valid values: "+strings.Join(knownPresets, ", "))
		}
		if err := validatePath(p.Docs.Path); err != nil {
			result.addError(field+".docs.path", p.Docs.Path, err.Error())
		}
		if strings.Trim(p.Docs.RouteBasePath, "/") == "" {
			result.addError(field+".docs.routeBasePath", p.Docs.RouteBasePath, "routeBasePath must not be empty")
		}
		for _, t := range p.Blog.FeedOptions.Type {
			if !slices.Contains(feedTypes, t) {
				result.addError(field+".blog.feedOptions.type", t, "unknown feed type",
					"valid values: "+strings.Join(feedTypes, ", "))
			}
		}
		for _, opt := range []struct{ name, policy string }{
			{"onInlineTags", p.Blog.OnInlineTags},
			{"onInlineAuthors", p.Blog.OnInlineAuthors},
			{"onUntruncatedBlogPosts", p.Blog.OnUntruncatedBlogPosts},
		} {
			if opt.policy != "" && !slices.Contains(linkPolicies, opt.policy) {
				result.addError(field+".blog."+opt.name, opt.policy, "unknown policy")
			}
		}
	}
}

func validateTheme(tc *ThemeConfig, result *ValidationResult) {
	for i, item := range tc.Navbar.Items {
		field := fmt.Sprintf("themeConfig.navbar.items[%d]", i)
		kind := item.Type
		if kind == "" {
			kind = NavItemLink
		}
		if !slices.Contains(navItemTypes, kind) {
			result.addError(field+".type", item.Type, "unknown navbar item type",
				"valid values: "+strings.Join(navItemTypes, ", "))
		}
		if strings.TrimSpace(item.Label) == "" {
			result.addError(field+".label", item.Label, "label is required")
		}
		if item.Position != "" && !slices.Contains(navPositions, item.Position) {
			result.addError(field+".position", item.Position, "position must be left or right")
		}
		switch kind {
		case NavItemLink:
			if item.To == "" && item.Href == "" {
				result.addError(field, item.Label, "link items need either to or href")
			}
		case NavItemDoc:
			if item.DocID == "" {
				result.addError(field+".docId", item.DocID, "doc items need a docId")
			}
		}
	}

	if tc.Footer.Style != "" && !slices.Contains(footerStyles, tc.Footer.Style) {
		result.addError("themeConfig.footer.style", tc.Footer.Style, "footer style must be dark or light")
	}
	for gi, group := range tc.Footer.Links {
		for ii, item := range group.Items {
			if item.Target() == "" {
				result.addError(fmt.Sprintf("themeConfig.footer.links[%d].items[%d]", gi, ii), item.Label,
					"footer items need either to or href")
			}
		}
	}

	for _, theme := range []struct{ field, name string }{
		{"themeConfig.prism.theme", tc.Prism.Theme},
		{"themeConfig.prism.darkTheme", tc.Prism.DarkTheme},
	} {
		if _, ok := styles.Registry[strings.ToLower(theme.name)]; !ok {
			result.addError(theme.field, theme.name, "unknown syntax highlighting theme",
				"any chroma style name works, e.g. github, dracula, monokai")
		}
	}
}

func validateServer(server *ServerConfig, result *ValidationResult) {
	// 0 lets the OS pick a port, used by tests.
	if server.Port < 0 || server.Port > 65535 {
		result.addError("server.port", server.Port, fmt.Sprintf("port %d is not in valid range 0-65535", server.Port))
	}
	if strings.ContainsAny(server.Host, " ;&|$`\"'\\<>()") {
		result.addError("server.host", server.Host, "host contains invalid characters")
	}
}

func validateBuild(build *BuildConfig, result *ValidationResult) {
	if err := validatePath(build.OutDir); err != nil {
		result.addError("build.outDir", build.OutDir, err.Error())
	}
	if build.StaticDir != "" {
		if err := validatePath(build.StaticDir); err != nil {
			result.addError("build.staticDir", build.StaticDir, err.Error())
		}
	}
}

func validateLog(log *LogConfig, result *ValidationResult) {
	if !slices.Contains(knownLogLevel, strings.ToLower(log.Level)) {
		result.addError("log.level", log.Level, "unknown log level")
	}
	if !slices.Contains(knownFormats, log.Format) {
		result.addError("log.format", log.Format, "log format must be text or json")
	}
}

// validatePath rejects empty paths and paths that escape the project root.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path must be relative: %s", path)
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	return nil
}
