package catalog

import (
	"strings"
)

// Category is the fixed component grouping used by the library
type Category string

// known categories
const (
	CategoryForms   Category = "Forms"
	CategoryAuth    Category = "Auth"
	CategoryNavbar  Category = "Navbar"
	CategoryUI      Category = "UI"
	CategoryStatus  Category = "Status"
	CategoryTheme   Category = "Theme"
	CategoryTabs    Category = "Tabs"
	CategoryCursors Category = "Cursors"
	CategoryLibrary Category = "Library"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryForms, CategoryAuth, CategoryNavbar, CategoryUI, CategoryStatus,
	CategoryTheme, CategoryTabs, CategoryCursors, CategoryLibrary,
}

// ParseCategory maps a case-insensitive category name to a known Category
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Kind is the export kind of a catalog entry, serialized as "type"
type Kind string

// known kinds
const (
	KindComponent Kind = "component"
	KindHook      Kind = "hook"
	KindContext   Kind = "context"
	KindUtility   Kind = "utility"
)

// ParseKind maps a case-insensitive kind name to a known Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindComponent:
		return KindComponent, true
	case KindHook:
		return KindHook, true
	case KindContext:
		return KindContext, true
	case KindUtility:
		return KindUtility, true
	}
	return "", false
}

// Component is a single catalog entry
type Component struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	RepoPath    string   `json:"repo_path"`
	Type        Kind     `json:"type"`
	Tags        []string `json:"tags"`
}

// HasTag reports whether the component carries the tag, compared case-insensitively
func (c Component) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DeriveKind derives the export kind from the naming convention.
// The "use" prefix is case-sensitive, so "UserMenu" stays a component.
func DeriveKind(name string) Kind {
	switch {
	case strings.HasPrefix(name, "use"):
		return KindHook
	case strings.Contains(name, "Context"), strings.Contains(name, "Provider"):
		return KindContext
	case strings.Contains(name, "Utility"), strings.Contains(name, "Helper"):
		return KindUtility
	default:
		return KindComponent
	}
}

var categoryTags = map[Category][]string{
	CategoryForms:   {"form", "input"},
	CategoryAuth:    {"auth", "authentication", "security"},
	CategoryNavbar:  {"navigation", "menu"},
	CategoryUI:      {"ui"},
	CategoryStatus:  {"status", "feedback"},
	CategoryTheme:   {"theme", "styling"},
	CategoryTabs:    {"tabs", "navigation"},
	CategoryCursors: {"cursor", "animation"},
	CategoryLibrary: {"library"},
}

// nameTags is ordered so derived tags are stable
var nameTags = []struct {
	substr string
	tags   []string
}{
	{"Button", []string{"button", "action"}},
	{"Input", []string{"input", "form-field"}},
	{"Field", []string{"input", "form-field"}},
	{"Select", []string{"select", "dropdown"}},
	{"Dropdown", []string{"select", "dropdown"}},
	{"Checkbox", []string{"checkbox", "form-field"}},
	{"Radio", []string{"radio", "form-field"}},
	{"Toggle", []string{"toggle", "switch"}},
	{"Switch", []string{"toggle", "switch"}},
	{"Form", []string{"form"}},
	{"Login", []string{"auth", "login"}},
	{"Signup", []string{"auth", "signup"}},
	{"Password", []string{"auth", "password"}},
	{"OTP", []string{"auth", "verification"}},
	{"Modal", []string{"modal", "overlay"}},
	{"Drawer", []string{"drawer", "overlay"}},
	{"Card", []string{"card", "layout"}},
	{"Table", []string{"table", "data"}},
	{"Chart", []string{"chart", "data-visualization"}},
	{"Pagination", []string{"pagination", "navigation"}},
	{"Nav", []string{"navigation"}},
	{"Menu", []string{"menu", "navigation"}},
	{"Breadcrumb", []string{"breadcrumb", "navigation"}},
	{"Tabs", []string{"tabs"}},
	{"Spinner", []string{"loading"}},
	{"Skeleton", []string{"loading"}},
	{"Progress", []string{"progress", "loading"}},
	{"Alert", []string{"alert", "notification"}},
	{"Toast", []string{"toast", "notification"}},
	{"Search", []string{"search"}},
	{"Upload", []string{"upload", "file"}},
	{"Date", []string{"date"}},
	{"Theme", []string{"theme"}},
	{"Cursor", []string{"cursor"}},
	{"Provider", []string{"provider", "context"}},
}

// DeriveTags derives lowercase, deduplicated tags from category and name
func DeriveTags(name string, category Category) []string {
	var tags []string
	tags = append(tags, categoryTags[category]...)
	for _, nt := range nameTags {
		if strings.Contains(name, nt.substr) {
			tags = append(tags, nt.tags...)
		}
	}
	return normalizeTags(tags)
}

// normalizeTags lowercases, trims and deduplicates tags keeping the first occurrence order
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
