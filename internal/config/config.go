// Package config provides the site configuration: the title, URLs, navbar and
// footer links, syntax-highlighting themes and link-checking policies that
// drive every page, plus the settings for the build and the dev server.
//
// Configuration is loaded with Viper from notes.yml, NOTES_* environment
// variables and command-line flags. Anything left unset falls back to the
// site's authored defaults (see Default).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/venkatarajeshjakka/notes/internal/errors"
)

// Link policies for onBrokenLinks and onBrokenMarkdownLinks.
const (
	PolicyIgnore = "ignore"
	PolicyLog    = "log"
	PolicyWarn   = "warn"
	PolicyThrow  = "throw"
)

// Navbar item types.
const (
	NavItemDocSidebar = "docSidebar"
	NavItemDoc        = "doc"
	NavItemLink       = "link"
)

type Config struct {
	Title                 string       `mapstructure:"title" yaml:"title" json:"title"`
	Tagline               string       `mapstructure:"tagline" yaml:"tagline" json:"tagline"`
	Favicon               string       `mapstructure:"favicon" yaml:"favicon" json:"favicon"`
	URL                   string       `mapstructure:"url" yaml:"url" json:"url"`
	BaseURL               string       `mapstructure:"baseurl" yaml:"baseUrl" json:"baseUrl"`
	OrganizationName      string       `mapstructure:"organizationname" yaml:"organizationName" json:"organizationName"`
	ProjectName           string       `mapstructure:"projectname" yaml:"projectName" json:"projectName"`
	OnBrokenLinks         string       `mapstructure:"onbrokenlinks" yaml:"onBrokenLinks" json:"onBrokenLinks"`
	OnBrokenMarkdownLinks string       `mapstructure:"onbrokenmarkdownlinks" yaml:"onBrokenMarkdownLinks" json:"onBrokenMarkdownLinks"`
	I18n                  I18nConfig   `mapstructure:"i18n" yaml:"i18n" json:"i18n"`
	Presets               []Preset     `mapstructure:"presets" yaml:"presets" json:"presets"`
	ThemeConfig           ThemeConfig  `mapstructure:"themeconfig" yaml:"themeConfig" json:"themeConfig"`
	Server                ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
	Build                 BuildConfig  `mapstructure:"build" yaml:"build" json:"build"`
	Log                   LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
}

type I18nConfig struct {
	DefaultLocale string   `mapstructure:"defaultlocale" yaml:"defaultLocale" json:"defaultLocale"`
	Locales       []string `mapstructure:"locales" yaml:"locales" json:"locales"`
}

// Preset selects docs, blog and theme behavior. Only "classic" is known.
type Preset struct {
	Name  string       `mapstructure:"name" yaml:"name" json:"name"`
	Docs  DocsOptions  `mapstructure:"docs" yaml:"docs" json:"docs"`
	Blog  BlogOptions  `mapstructure:"blog" yaml:"blog" json:"blog"`
	Theme ThemeOptions `mapstructure:"theme" yaml:"theme" json:"theme"`
}

type DocsOptions struct {
	Path          string `mapstructure:"path" yaml:"path" json:"path"`
	RouteBasePath string `mapstructure:"routebasepath" yaml:"routeBasePath" json:"routeBasePath"`
	SidebarID     string `mapstructure:"sidebarid" yaml:"sidebarId" json:"sidebarId"`
}

type BlogOptions struct {
	ShowReadingTime        bool        `mapstructure:"showreadingtime" yaml:"showReadingTime" json:"showReadingTime"`
	FeedOptions            FeedOptions `mapstructure:"feedoptions" yaml:"feedOptions" json:"feedOptions"`
	OnInlineTags           string      `mapstructure:"oninlinetags" yaml:"onInlineTags" json:"onInlineTags"`
	OnInlineAuthors        string      `mapstructure:"oninlineauthors" yaml:"onInlineAuthors" json:"onInlineAuthors"`
	OnUntruncatedBlogPosts string      `mapstructure:"onuntruncatedblogposts" yaml:"onUntruncatedBlogPosts" json:"onUntruncatedBlogPosts"`
}

type FeedOptions struct {
	Type []string `mapstructure:"type" yaml:"type" json:"type"`
	XSLT bool     `mapstructure:"xslt" yaml:"xslt" json:"xslt"`
}

type ThemeOptions struct {
	CustomCSS string `mapstructure:"customcss" yaml:"customCss" json:"customCss"`
}

type ThemeConfig struct {
	Image  string       `mapstructure:"image" yaml:"image" json:"image"`
	Navbar NavbarConfig `mapstructure:"navbar" yaml:"navbar" json:"navbar"`
	Footer FooterConfig `mapstructure:"footer" yaml:"footer" json:"footer"`
	Prism  PrismConfig  `mapstructure:"prism" yaml:"prism" json:"prism"`
}

type NavbarConfig struct {
	Title string     `mapstructure:"title" yaml:"title" json:"title"`
	Logo  LogoConfig `mapstructure:"logo" yaml:"logo" json:"logo"`
	Items []NavItem  `mapstructure:"items" yaml:"items" json:"items"`
}

type LogoConfig struct {
	Alt string `mapstructure:"alt" yaml:"alt" json:"alt"`
	Src string `mapstructure:"src" yaml:"src" json:"src"`
}

// NavItem is a navbar entry. Type defaults to "link", in which case exactly
// one of To (in-site) or Href (external) is used.
type NavItem struct {
	Type      string `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Label     string `mapstructure:"label" yaml:"label" json:"label"`
	Position  string `mapstructure:"position" yaml:"position" json:"position"`
	SidebarID string `mapstructure:"sidebarid" yaml:"sidebarId,omitempty" json:"sidebarId,omitempty"`
	DocID     string `mapstructure:"docid" yaml:"docId,omitempty" json:"docId,omitempty"`
	To        string `mapstructure:"to" yaml:"to,omitempty" json:"to,omitempty"`
	Href      string `mapstructure:"href" yaml:"href,omitempty" json:"href,omitempty"`
}

type FooterConfig struct {
	Style     string        `mapstructure:"style" yaml:"style" json:"style"`
	Links     []FooterGroup `mapstructure:"links" yaml:"links" json:"links"`
	Copyright string        `mapstructure:"copyright" yaml:"copyright" json:"copyright"`
}

type FooterGroup struct {
	Title string     `mapstructure:"title" yaml:"title" json:"title"`
	Items []LinkItem `mapstructure:"items" yaml:"items" json:"items"`
}

type LinkItem struct {
	Label string `mapstructure:"label" yaml:"label" json:"label"`
	To    string `mapstructure:"to" yaml:"to,omitempty" json:"to,omitempty"`
	Href  string `mapstructure:"href" yaml:"href,omitempty" json:"href,omitempty"`
}

// Target returns the item's link target, preferring the in-site path.
func (l LinkItem) Target() string {
	if l.To != "" {
		return l.To
	}
	return l.Href
}

type PrismConfig struct {
	Theme     string `mapstructure:"theme" yaml:"theme" json:"theme"`
	DarkTheme string `mapstructure:"darktheme" yaml:"darkTheme" json:"darkTheme"`
}

type ServerConfig struct {
	Host  string `mapstructure:"host" yaml:"host" json:"host"`
	Port  int    `mapstructure:"port" yaml:"port" json:"port"`
	Watch bool   `mapstructure:"watch" yaml:"watch" json:"watch"`
}

type BuildConfig struct {
	OutDir    string `mapstructure:"outdir" yaml:"outDir" json:"outDir"`
	StaticDir string `mapstructure:"staticdir" yaml:"staticDir" json:"staticDir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Default returns the site's authored configuration.
func Default() *Config {
	const repo = "https://github.com/venkatarajeshjakka/notes"

	return &Config{
		Title:                 "Venkata Rajesh Jakka",
		Tagline:               "Senior Software Engineer",
		Favicon:               "img/favicon.ico",
		URL:                   "https://venkatarajeshjakka.github.io",
		BaseURL:               "/notes/",
		OrganizationName:      "venkatarajeshjakka",
		ProjectName:           "notes",
		OnBrokenLinks:         PolicyThrow,
		OnBrokenMarkdownLinks: PolicyWarn,
		I18n: I18nConfig{
			DefaultLocale: "en",
			Locales:       []string{"en"},
		},
		Presets: []Preset{defaultPreset()},
		ThemeConfig: ThemeConfig{
			Image: "img/social-card.jpg",
			Navbar: NavbarConfig{
				Title: "",
				Logo:  LogoConfig{Alt: "My Site Logo", Src: "img/logo.svg"},
				Items: []NavItem{
					{Type: NavItemDocSidebar, SidebarID: "tutorialSidebar", Position: "left", Label: "Notes"},
					{Href: repo, Label: "GitHub", Position: "right"},
				},
			},
			Footer: FooterConfig{
				Style: "dark",
				Links: []FooterGroup{
					{
						Title: "Documentation",
						Items: []LinkItem{
							{Label: "Node.js", To: "/docs/nodejs/introduction"},
							{Label: ".NET", To: "/docs/dotnet/middleware"},
						},
					},
					{
						Title: "More",
						Items: []LinkItem{{Label: "GitHub", Href: repo}},
					},
				},
				Copyright: "Copyright © {year} Venkata Rajesh Jakka. Built with Go and templ.",
			},
			Prism: PrismConfig{Theme: "github", DarkTheme: "dracula"},
		},
		Server: ServerConfig{Host: "localhost", Port: 3000, Watch: true},
		Build:  BuildConfig{OutDir: "build", StaticDir: "static"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

func defaultPreset() Preset {
	return Preset{
		Name: "classic",
		Docs: DocsOptions{Path: "docs", RouteBasePath: "docs", SidebarID: "tutorialSidebar"},
		Blog: BlogOptions{
			ShowReadingTime:        true,
			FeedOptions:            FeedOptions{Type: []string{"rss", "atom"}, XSLT: true},
			OnInlineTags:           PolicyWarn,
			OnInlineAuthors:        PolicyWarn,
			OnUntruncatedBlogPosts: PolicyWarn,
		},
		Theme: ThemeOptions{CustomCSS: "css/custom.css"},
	}
}

// Classic returns the classic preset, or the default one when none is set.
func (c *Config) Classic() Preset {
	for _, p := range c.Presets {
		if p.Name == "classic" {
			return p
		}
	}
	return defaultPreset()
}

// DocsDir returns the directory the docs are loaded from.
func (c *Config) DocsDir() string {
	return c.Classic().Docs.Path
}

// DocsRouteBase returns the docs route prefix, e.g. "/docs".
func (c *Config) DocsRouteBase() string {
	base := c.Classic().Docs.RouteBasePath
	if base == "" {
		base = "docs"
	}
	return "/" + base
}

// Load reads configuration from the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes v over the site defaults and validates the result.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Decode decodes v over the site defaults without validating.
func Decode(v *viper.Viper) (*Config, error) {
	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigLoad, fmt.Sprintf("decoding configuration: %v", err))
	}
	return merge(Default(), &loaded, v), nil
}

// merge overlays every non-zero field of loaded onto def. Booleans are only
// taken when explicitly set, since false is also their zero value.
func merge(def, loaded *Config, v *viper.Viper) *Config {
	overlay(&def.Title, loaded.Title)
	overlay(&def.Tagline, loaded.Tagline)
	overlay(&def.Favicon, loaded.Favicon)
	overlay(&def.URL, loaded.URL)
	overlay(&def.BaseURL, loaded.BaseURL)
	overlay(&def.OrganizationName, loaded.OrganizationName)
	overlay(&def.ProjectName, loaded.ProjectName)
	overlay(&def.OnBrokenLinks, loaded.OnBrokenLinks)
	overlay(&def.OnBrokenMarkdownLinks, loaded.OnBrokenMarkdownLinks)

	overlay(&def.I18n.DefaultLocale, loaded.I18n.DefaultLocale)
	if len(loaded.I18n.Locales) > 0 {
		def.I18n.Locales = loaded.I18n.Locales
	}

	if len(loaded.Presets) > 0 {
		def.Presets = loaded.Presets
		for i := range def.Presets {
			fillPreset(&def.Presets[i], v, i)
		}
	}

	tc := &def.ThemeConfig
	overlay(&tc.Image, loaded.ThemeConfig.Image)
	if v.IsSet("themeconfig.navbar.title") {
		tc.Navbar.Title = loaded.ThemeConfig.Navbar.Title
	}
	overlay(&tc.Navbar.Logo.Alt, loaded.ThemeConfig.Navbar.Logo.Alt)
	overlay(&tc.Navbar.Logo.Src, loaded.ThemeConfig.Navbar.Logo.Src)
	if len(loaded.ThemeConfig.Navbar.Items) > 0 {
		tc.Navbar.Items = loaded.ThemeConfig.Navbar.Items
	}
	overlay(&tc.Footer.Style, loaded.ThemeConfig.Footer.Style)
	if len(loaded.ThemeConfig.Footer.Links) > 0 {
		tc.Footer.Links = loaded.ThemeConfig.Footer.Links
	}
	overlay(&tc.Footer.Copyright, loaded.ThemeConfig.Footer.Copyright)
	overlay(&tc.Prism.Theme, loaded.ThemeConfig.Prism.Theme)
	overlay(&tc.Prism.DarkTheme, loaded.ThemeConfig.Prism.DarkTheme)

	overlay(&def.Server.Host, loaded.Server.Host)
	if v.IsSet("server.port") {
		def.Server.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.watch") {
		def.Server.Watch = v.GetBool("server.watch")
	}

	overlay(&def.Build.OutDir, loaded.Build.OutDir)
	overlay(&def.Build.StaticDir, loaded.Build.StaticDir)

	overlay(&def.Log.Level, loaded.Log.Level)
	overlay(&def.Log.Format, loaded.Log.Format)

	return def
}

// fillPreset applies the classic preset defaults to the unset fields of a
// user-supplied preset.
func fillPreset(p *Preset, v *viper.Viper, idx int) {
	def := defaultPreset()
	if p.Name == "" {
		p.Name = def.Name
	}
	fillEmpty(&p.Docs.Path, def.Docs.Path)
	fillEmpty(&p.Docs.RouteBasePath, def.Docs.RouteBasePath)
	fillEmpty(&p.Docs.SidebarID, def.Docs.SidebarID)
	if !presetKeySet(v, idx, "blog.showreadingtime") {
		p.Blog.ShowReadingTime = def.Blog.ShowReadingTime
	}
	if len(p.Blog.FeedOptions.Type) == 0 {
		p.Blog.FeedOptions = def.Blog.FeedOptions
	}
	fillEmpty(&p.Blog.OnInlineTags, def.Blog.OnInlineTags)
	fillEmpty(&p.Blog.OnInlineAuthors, def.Blog.OnInlineAuthors)
	fillEmpty(&p.Blog.OnUntruncatedBlogPosts, def.Blog.OnUntruncatedBlogPosts)
	fillEmpty(&p.Theme.CustomCSS, def.Theme.CustomCSS)
}

// presetKeySet reports whether presets[idx].<key> appears in the raw settings.
// Viper cannot address slice elements through IsSet.
func presetKeySet(v *viper.Viper, idx int, key string) bool {
	raw, ok := v.Get("presets").([]interface{})
	if !ok || idx >= len(raw) {
		return false
	}
	node, ok := raw[idx].(map[string]interface{})
	if !ok {
		return false
	}
	for _, part := range splitKey(key) {
		val, found := lookupFold(node, part)
		if !found {
			return false
		}
		next, isMap := val.(map[string]interface{})
		if !isMap {
			return true
		}
		node = next
	}
	return true
}

// overlay replaces dst with src when src is set.
func overlay(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// fillEmpty sets dst to def when dst is unset.
func fillEmpty(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}

func lookupFold(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// envKeys are the scalar settings that may be overridden through NOTES_*
// environment variables. Viper only consults the environment during
// Unmarshal for keys it already knows about.
var envKeys = []string{
	"title", "tagline", "url", "baseurl", "favicon",
	"organizationname", "projectname",
	"onbrokenlinks", "onbrokenmarkdownlinks",
	"i18n.defaultlocale",
	"themeconfig.prism.theme", "themeconfig.prism.darktheme",
	"server.host", "server.port", "server.watch",
	"build.outdir", "build.staticdir",
	"log.level", "log.format",
}

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "NOTES"

// ConfigureEnv enables NOTES_<SECTION>_<KEY> overrides on v.
func ConfigureEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return BindEnv(v)
}

// BindEnv registers envKeys with v so that NOTES_SERVER_PORT and friends
// reach Unmarshal.
func BindEnv(v *viper.Viper) error {
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}
