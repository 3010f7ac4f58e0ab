// Package content holds the hand-authored data rendered on the home page: the
// documentation topic cards, the summary stats and the hero actions.
//
// All sequences are ordered (order is display order) and every accessor
// returns a fresh copy, so callers cannot alter what the next render sees.
package content

import "strings"

// FeatureEntry describes one documentation topic card.
type FeatureEntry struct {
	Title       string `json:"title" yaml:"title"`
	Icon        string `json:"icon" yaml:"icon"`
	Color       string `json:"color" yaml:"color"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
}

// StatEntry is one pre-computed summary metric.
type StatEntry struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Action is a navigation button in the hero section.
type Action struct {
	Label string `json:"label" yaml:"label"`
	To    string `json:"to" yaml:"to"`
}

// External reports whether the action leaves the site.
func (a Action) External() bool {
	return IsExternal(a.To)
}

// IsExternal reports whether link is an absolute http(s) URL.
func IsExternal(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// RepositoryURL is the source repository of the site.
const RepositoryURL = "https://github.com/venkatarajeshjakka/notes"

// GetStartedPath is the first page a new reader is sent to.
const GetStartedPath = "/docs/nodejs/introduction"

var features = []FeatureEntry{
	{
		Title:       "Node.js",
		Icon:        "Node",
		Color:       "#68a063",
		Description: "Complete guide to Node.js fundamentals, Express.js, routing, middleware, and database integration with MongoDB.",
		Link:        GetStartedPath,
	},
	{
		Title:       ".NET",
		Icon:        ".NET",
		Color:       "#512bd4",
		Description: "Explore .NET patterns including middleware, options pattern, authentication, and global error handling.",
		Link:        "/docs/dotnet/middleware",
	},
	{
		Title:       "Database",
		Icon:        "DB",
		Color:       "#4db33d",
		Description: "Learn MongoDB schemas, models, indexing strategies, and compound indexes for optimal query performance.",
		Link:        "/docs/nodejs/database/create-database-mongodb",
	},
	{
		Title:       "Authentication",
		Icon:        "Auth",
		Color:       "#f59e0b",
		Description: "Implement secure authentication with JWT tokens, permission-based authorization, and best practices.",
		Link:        "/docs/dotnet/authentication/jwt-token",
	},
}

var stats = []StatEntry{
	{Value: "50+", Label: "Documentation Pages"},
	{Value: "4", Label: "Technology Stacks"},
	{Value: "100%", Label: "Free & Open Source"},
}

var heroActions = []Action{
	{Label: "Get Started", To: GetStartedPath},
	{Label: "View on GitHub", To: RepositoryURL},
}

// Features returns the documentation topic cards in display order.
func Features() []FeatureEntry {
	out := make([]FeatureEntry, len(features))
	copy(out, features)
	return out
}

// Stats returns the summary metrics in display order.
func Stats() []StatEntry {
	out := make([]StatEntry, len(stats))
	copy(out, stats)
	return out
}

// HeroActions returns the hero buttons: one in-site, one external.
func HeroActions() []Action {
	out := make([]Action, len(heroActions))
	copy(out, heroActions)
	return out
}
