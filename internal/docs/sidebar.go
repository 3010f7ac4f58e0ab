package docs

import (
	"math"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/venkatarajeshjakka/notes/internal/errors"
)

// Set is a loaded docs tree.
type Set struct {
	dir        string
	routeBase  string
	sidebarID  string
	docs       []*Doc
	byID       map[string]*Doc
	byRoute    map[string]*Doc
	categories map[string]categoryMeta
}

// Category is one sidebar section. Docs at the root of the tree share the
// category with an empty Name.
type Category struct {
	Name  string
	Label string
	Docs  []*Doc
}

// categoryMeta is read from a directory's _category_.json or _category_.yml.
type categoryMeta struct {
	Label    string   `yaml:"label" json:"label"`
	Position *float64 `yaml:"position" json:"position"`
}

// BrokenLink is a markdown link that does not resolve to any doc.
type BrokenLink struct {
	Doc    *Doc
	Target string
}

func newSet(dir, routeBase, sidebarID string) *Set {
	return &Set{
		dir:        dir,
		routeBase:  routeBase,
		sidebarID:  sidebarID,
		byID:       make(map[string]*Doc),
		byRoute:    make(map[string]*Doc),
		categories: make(map[string]categoryMeta),
	}
}

func (s *Set) add(doc *Doc) {
	s.docs = append(s.docs, doc)
	s.byID[doc.ID] = doc
	s.byRoute[doc.Route] = doc
}

// Len returns the number of docs.
func (s *Set) Len() int { return len(s.docs) }

// Dir returns the directory the set was loaded from.
func (s *Set) Dir() string { return s.dir }

// ByID looks a doc up by its ID, e.g. "nodejs/introduction".
func (s *Set) ByID(id string) (*Doc, bool) {
	doc, ok := s.byID[id]
	return doc, ok
}

// ByRoute looks a doc up by its page route.
func (s *Set) ByRoute(route string) (*Doc, bool) {
	doc, ok := s.byRoute[route]
	return doc, ok
}

// DocRoute returns the route of the doc with the given ID.
func (s *Set) DocRoute(id string) (string, bool) {
	doc, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return doc.Route, true
}

// SidebarRoute returns the route of the first doc of the named sidebar. The
// tree forms a single sidebar, so only its own ID (or none) resolves.
func (s *Set) SidebarRoute(sidebarID string) (string, bool) {
	if sidebarID != "" && s.sidebarID != "" && sidebarID != s.sidebarID {
		return "", false
	}
	first := s.First()
	if first == nil {
		return "", false
	}
	return first.Route, true
}

// Docs returns every doc in sidebar order.
func (s *Set) Docs() []*Doc {
	var out []*Doc
	for _, cat := range s.Sidebar() {
		out = append(out, cat.Docs...)
	}
	return out
}

// First returns the first doc in sidebar order, or nil for an empty set.
func (s *Set) First() *Doc {
	docs := s.Docs()
	if len(docs) == 0 {
		return nil
	}
	return docs[0]
}

// Neighbors returns the docs before and after id in sidebar order.
func (s *Set) Neighbors(id string) (prev, next *Doc) {
	docs := s.Docs()
	for i, doc := range docs {
		if doc.ID != id {
			continue
		}
		if i > 0 {
			prev = docs[i-1]
		}
		if i+1 < len(docs) {
			next = docs[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// BrokenLinks returns the markdown links that did not resolve, in doc order.
func (s *Set) BrokenLinks() []BrokenLink {
	var out []BrokenLink
	for _, doc := range s.docs {
		for _, link := range doc.Links {
			if link.Broken {
				out = append(out, BrokenLink{Doc: doc, Target: link.Target})
			}
		}
	}
	return out
}

// Sidebar groups the docs by category. Docs are ordered by sidebar_position,
// then ID. Categories are ordered by their configured position, else their
// lowest doc position, then name.
func (s *Set) Sidebar() []Category {
	groups := make(map[string]*Category)
	var names []string
	for _, doc := range s.docs {
		cat, ok := groups[doc.Category]
		if !ok {
			cat = &Category{Name: doc.Category, Label: s.categoryLabel(doc.Category)}
			groups[doc.Category] = cat
			names = append(names, doc.Category)
		}
		cat.Docs = append(cat.Docs, doc)
	}

	for _, cat := range groups {
		sort.SliceStable(cat.Docs, func(i, j int) bool {
			a, b := cat.Docs[i], cat.Docs[j]
			if pa, pb := docOrder(a), docOrder(b); pa != pb {
				return pa < pb
			}
			return a.ID < b.ID
		})
	}

	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := s.categoryOrder(groups[names[i]]), s.categoryOrder(groups[names[j]])
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})

	out := make([]Category, 0, len(names))
	for _, name := range names {
		out = append(out, *groups[name])
	}
	return out
}

func docOrder(doc *Doc) float64 {
	if doc.Positioned {
		return doc.Position
	}
	return math.Inf(1)
}

func (s *Set) categoryOrder(cat *Category) float64 {
	if meta, ok := s.categories[cat.Name]; ok && meta.Position != nil {
		return *meta.Position
	}
	lowest := math.Inf(1)
	for _, doc := range cat.Docs {
		lowest = math.Min(lowest, docOrder(doc))
	}
	return lowest
}

func (s *Set) categoryLabel(name string) string {
	if name == "" {
		return ""
	}
	if meta, ok := s.categories[name]; ok && meta.Label != "" {
		return meta.Label
	}
	return titleFromName(name)
}

var categoryFiles = []string{"_category_.json", "_category_.yml", "_category_.yaml"}

// readCategories reads the category metadata of each top-level directory.
// JSON is valid YAML, so one decoder serves all three file names.
func readCategories(dir string) (map[string]categoryMeta, error) {
	out := make(map[string]categoryMeta)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeReadFailed, "reading docs directory", err).WithFile(dir, 0)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, name := range categoryFiles {
			p := filepath.Join(dir, entry.Name(), name)
			raw, err := os.ReadFile(p)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return nil, errors.NewIOError(errors.ErrCodeReadFailed, "reading category metadata", err).WithFile(p, 0)
			}
			var meta categoryMeta
			if err := yaml.Unmarshal(raw, &meta); err != nil {
				return nil, errors.NewContentError(errors.ErrCodeFrontMatter, "invalid category metadata", err).WithFile(p, 0)
			}
			out[entry.Name()] = meta
			break
		}
	}
	return out, nil
}
