package engine

import (
	"strings"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// Complexity is a coarse estimate of how involved the described UI is
type Complexity string

// complexity levels
const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ParseComplexity maps a case-insensitive level name to a Complexity
func ParseComplexity(s string) (Complexity, bool) {
	switch Complexity(strings.ToLower(strings.TrimSpace(s))) {
	case ComplexitySimple:
		return ComplexitySimple, true
	case ComplexityMedium:
		return ComplexityMedium, true
	case ComplexityComplex:
		return ComplexityComplex, true
	}
	return "", false
}

// IntentGeneral is used when no intent keyword matches
const IntentGeneral = "general-ui"

// Analysis is the structured reading of a free-text UI description
type Analysis struct {
	Keywords            []string           `json:"keywords"`
	SuggestedCategories []catalog.Category `json:"suggested_categories"`
	UIPatterns          []string           `json:"ui_patterns"`
	Complexity          Complexity         `json:"complexity"`
	Intent              string             `json:"intent"`
}

// HasCategory reports whether the category was suggested
func (a Analysis) HasCategory(c catalog.Category) bool {
	for _, s := range a.SuggestedCategories {
		if s == c {
			return true
		}
	}
	return false
}

// HasPattern reports whether the UI pattern was detected
func (a Analysis) HasPattern(name string) bool {
	for _, p := range a.UIPatterns {
		if p == name {
			return true
		}
	}
	return false
}

var uiElementTerms = []string{
	"button", "form", "input", "modal", "dialog", "table", "card", "list", "menu", "navbar",
	"navigation", "tab", "dropdown", "select", "checkbox", "radio", "toggle", "switch", "slider",
	"tooltip", "alert", "toast", "notification", "badge", "avatar", "spinner", "loader",
	"progress", "pagination", "breadcrumb", "sidebar", "header", "footer", "chart", "calendar",
	"upload", "search", "cursor", "theme", "field", "textarea", "drawer", "accordion",
}

var functionalTerms = []string{
	"login", "logout", "signup", "sign up", "sign in", "register", "authenticate", "submit",
	"validate", "filter", "sort", "edit", "delete", "create", "update", "download", "navigate",
	"display", "show", "toggle", "dark mode", "notify", "track", "paginate", "verify", "reset",
}

var dataTerms = []string{
	"data", "user", "profile", "email", "password", "payment", "order", "product", "customer",
	"analytics", "report", "dashboard", "record", "file", "image", "date", "api", "course",
	"amount", "phone",
}

type keywordGroup struct {
	name     string
	keywords []string
}

var categoryKeywords = []struct {
	category catalog.Category
	keywords []string
}{
	{catalog.CategoryForms, []string{"form", "input", "field", "submit", "validation", "validate", "textarea", "checkbox", "select", "dropdown", "upload"}},
	{catalog.CategoryAuth, []string{"login", "logout", "signup", "sign up", "sign in", "register", "auth", "password", "otp"}},
	{catalog.CategoryNavbar, []string{"navbar", "navigation", "menu", "header", "sidebar", "breadcrumb", "nav "}},
	{catalog.CategoryUI, []string{"button", "card", "modal", "dialog", "tooltip", "badge", "avatar", "layout", "table", "chart", "list"}},
	{catalog.CategoryStatus, []string{"loading", "spinner", "progress", "alert", "toast", "notification", "error", "success", "status"}},
	{catalog.CategoryTheme, []string{"theme", "dark mode", "light mode", "color", "styling"}},
	{catalog.CategoryTabs, []string{"tab"}},
	{catalog.CategoryCursors, []string{"cursor", "pointer", "mouse"}},
	{catalog.CategoryLibrary, []string{"hook", "utility", "helper", "fetch", "local storage", "debounce"}},
}

// uiPatterns pairs pattern keywords with the component name fragments that implement it
var uiPatterns = []struct {
	name     string
	keywords []string
	names    []string
}{
	{"CRUD Operations", []string{"create", "edit", "update", "delete", "manage", "crud"}, []string{"Form", "Table", "Modal", "Button"}},
	{"Data Entry", []string{"form", "input", "submit", "enter", "fill"}, []string{"Input", "Field", "Form", "Select", "Textarea"}},
	{"Data Display", []string{"table", "list", "display", "show", "view", "grid", "chart"}, []string{"Table", "List", "Card", "Chart"}},
	{"Authentication", []string{"login", "signup", "sign up", "sign in", "register", "auth", "password"}, []string{"Login", "Signup", "Password", "OTP", "Session", "Protected"}},
	{"Navigation", []string{"navigation", "menu", "navbar", "sidebar", "tabs", "breadcrumb"}, []string{"Nav", "Menu", "Tabs", "Breadcrumb"}},
	{"Feedback", []string{"alert", "notification", "toast", "error", "success", "loading"}, []string{"Alert", "Toast", "Spinner", "Skeleton", "Progress", "Status"}},
	{"Search & Filter", []string{"search", "filter", "sort", "find"}, []string{"Search", "Filter", "Select"}},
	{"File Handling", []string{"upload", "file", "download", "image", "attachment"}, []string{"Upload", "File"}},
	{"Dashboard", []string{"dashboard", "analytics", "metrics", "stats", "overview"}, []string{"Chart", "Card", "Table", "Badge"}},
	{"Theming", []string{"theme", "dark mode", "light mode", "color"}, []string{"Theme"}},
}

var intents = []keywordGroup{
	{"build-form", []string{"form", "input", "submit", "field", "validation", "enter"}},
	{"user-authentication", []string{"login", "signup", "sign up", "sign in", "register", "password", "auth"}},
	{"display-data", []string{"display", "show", "table", "list", "view", "grid", "data"}},
	{"navigation", []string{"navigate", "navigation", "menu", "navbar", "sidebar", "tabs", "breadcrumb"}},
	{"user-feedback", []string{"alert", "notification", "toast", "message", "error", "success", "loading"}},
	{"dashboard", []string{"dashboard", "analytics", "metrics", "stats", "overview", "admin"}},
	{"search-filter", []string{"search", "filter", "find", "sort"}},
	{"file-management", []string{"upload", "download", "file", "attachment", "image"}},
	{"theming", []string{"theme", "dark mode", "light mode", "color", "style"}},
	{"interactive-ui", []string{"button", "modal", "dialog", "click", "toggle", "dropdown", "tooltip", "cursor"}},
}

// intentBonus maps an intent to per-category score bonuses
var intentBonus = map[string]map[catalog.Category]int{
	"build-form":          {catalog.CategoryForms: 5, catalog.CategoryUI: 2},
	"user-authentication": {catalog.CategoryAuth: 5, catalog.CategoryForms: 3},
	"display-data":        {catalog.CategoryUI: 4, catalog.CategoryStatus: 2},
	"navigation":          {catalog.CategoryNavbar: 5, catalog.CategoryTabs: 4},
	"user-feedback":       {catalog.CategoryStatus: 5, catalog.CategoryUI: 2},
	"dashboard":           {catalog.CategoryUI: 4, catalog.CategoryStatus: 3, catalog.CategoryTabs: 2},
	"search-filter":       {catalog.CategoryForms: 3, catalog.CategoryUI: 2},
	"file-management":     {catalog.CategoryForms: 4, catalog.CategoryUI: 2},
	"theming":             {catalog.CategoryTheme: 5, catalog.CategoryUI: 2},
	"interactive-ui":      {catalog.CategoryUI: 4, catalog.CategoryCursors: 3},
	IntentGeneral:         {catalog.CategoryUI: 2},
}

// ExtractAnalysis reads keywords, categories, UI patterns, complexity and intent from text.
// Matching is substring containment on the lowercased text, not tokenization.
func ExtractAnalysis(text string) Analysis {
	lower := strings.ToLower(text)

	a := Analysis{
		Keywords:            extractKeywords(lower),
		SuggestedCategories: []catalog.Category{},
		UIPatterns:          []string{},
	}

	for _, ck := range categoryKeywords {
		if containsAny(lower, ck.keywords) {
			a.SuggestedCategories = append(a.SuggestedCategories, ck.category)
		}
	}

	for _, p := range uiPatterns {
		if containsAny(lower, p.keywords) {
			a.UIPatterns = append(a.UIPatterns, p.name)
		}
	}

	a.Complexity = estimateComplexity(lower, len(a.Keywords))
	a.Intent = detectIntent(lower)
	return a
}

func extractKeywords(lower string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, vocab := range [][]string{uiElementTerms, functionalTerms, dataTerms} {
		for _, term := range vocab {
			if !seen[term] && strings.Contains(lower, term) {
				seen[term] = true
				keywords = append(keywords, term)
			}
		}
	}
	if keywords == nil {
		return []string{}
	}
	return keywords
}

// estimateComplexity scores the text: <=0 simple, 1-3 medium, >3 complex
func estimateComplexity(lower string, keywordCount int) Complexity {
	score := 0
	if containsAny(lower, []string{"basic", "simple"}) {
		score -= 2
	}
	if containsAny(lower, []string{"form", "table", "chart"}) {
		score++
	}
	if containsAny(lower, []string{"dashboard", "admin", "system"}) {
		score += 2
	}
	if containsAny(lower, []string{"integration", "api", "advanced"}) {
		score += 3
	}
	if keywordCount > 5 {
		score += 2
	}

	switch {
	case score <= 0:
		return ComplexitySimple
	case score <= 3:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}

// detectIntent picks the intent with most keyword hits, earlier intents win ties
func detectIntent(lower string) string {
	best, bestHits := IntentGeneral, 0
	for _, in := range intents {
		hits := 0
		for _, kw := range in.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = in.name, hits
		}
	}
	return best
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
