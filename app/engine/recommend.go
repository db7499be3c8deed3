package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

const (
	maxPrimary           = 8
	maxSecondary         = 6
	maxExamples          = 3
	maxPatternComponents = 4
)

// complements pulls extra components into the secondary set when a primary matches
var complements = []struct {
	match func(catalog.Component) bool
	pick  func(catalog.Component) bool
	why   string
}{
	{
		match: func(c catalog.Component) bool { return strings.Contains(c.Name, "Input") || strings.Contains(c.Name, "Field") },
		pick:  func(c catalog.Component) bool { return c.Name == "SubmitButton" },
		why:   "Submits the form inputs",
	},
	{
		match: func(c catalog.Component) bool { return strings.Contains(c.Name, "Table") },
		pick:  func(c catalog.Component) bool { return c.Name == "Pagination" },
		why:   "Pages through table rows",
	},
	{
		match: func(c catalog.Component) bool { return c.Category == catalog.CategoryAuth },
		pick:  func(c catalog.Component) bool { return strings.Contains(c.Name, "Provider") },
		why:   "Provides context for authenticated screens",
	},
}

// patternTemplates are the compositions with code skeletons
var patternTemplates = []struct {
	name     string
	useCase  string
	desc     string
	applies  func(Analysis) bool
	category catalog.Category
	fits     func(catalog.Component) bool
}{
	{
		name:     "Form",
		desc:     "Inputs grouped in a form with a submit action",
		useCase:  "Collecting and validating user input",
		applies:  func(a Analysis) bool { return a.HasCategory(catalog.CategoryForms) || a.HasPattern("Data Entry") },
		category: catalog.CategoryForms,
		fits:     func(c catalog.Component) bool { return c.Category == catalog.CategoryForms && c.Type == catalog.KindComponent },
	},
	{
		name:     "Dashboard",
		desc:     "Cards, charts and tables summarizing data",
		useCase:  "Admin overviews and analytics pages",
		applies:  func(a Analysis) bool { return a.HasPattern("Dashboard") },
		category: catalog.CategoryUI,
		fits: func(c catalog.Component) bool {
			return strings.Contains(c.Name, "Card") || strings.Contains(c.Name, "Chart") ||
				strings.Contains(c.Name, "Table") || strings.Contains(c.Name, "Badge")
		},
	},
	{
		name:     "Navigation",
		desc:     "Site navigation with menus and breadcrumbs",
		useCase:  "Moving between pages and sections",
		applies:  func(a Analysis) bool { return a.HasCategory(catalog.CategoryNavbar) || a.HasPattern("Navigation") },
		category: catalog.CategoryNavbar,
		fits:     func(c catalog.Component) bool { return c.Category == catalog.CategoryNavbar || c.Category == catalog.CategoryTabs },
	},
	{
		name:     "Auth",
		desc:     "Sign in and registration screens with session handling",
		useCase:  "User authentication flows",
		applies:  func(a Analysis) bool { return a.HasCategory(catalog.CategoryAuth) || a.HasPattern("Authentication") },
		category: catalog.CategoryAuth,
		fits:     func(c catalog.Component) bool { return c.Category == catalog.CategoryAuth && c.Type == catalog.KindComponent },
	},
}

// Recommend analyzes the description and assembles primary and secondary components,
// matching patterns, reasoning and code examples
func (e *Engine) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, required("description")
	}

	var complexity Complexity
	if req.Complexity != "" {
		c, ok := ParseComplexity(req.Complexity)
		if !ok {
			return nil, &InvalidInputError{Field: "complexity", Message: fmt.Sprintf("unknown complexity %q, use simple, medium or complex", req.Complexity)}
		}
		complexity = c
	}
	if req.Framework != "" {
		if _, ok := parseFramework(req.Framework); !ok {
			return nil, &InvalidInputError{Field: "framework", Message: fmt.Sprintf("unsupported framework %q, use one of %s", req.Framework, strings.Join(frameworks, ", "))}
		}
	}

	cat, err := e.Catalog()
	if err != nil {
		return nil, err
	}

	text := req.Description
	if ctxText := strings.TrimSpace(req.Context); ctxText != "" {
		text += " " + ctxText
	}

	key, _ := json.Marshal(RecommendRequest{Description: strings.ToLower(text), Complexity: string(complexity)})
	v, err := e.cached(cat, "recommend", key, func() (any, error) {
		return e.recommend(cat, text, complexity), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Recommendation), nil
}

func (e *Engine) recommend(cat *catalog.Catalog, text string, complexity Complexity) *Recommendation {
	a := ExtractAnalysis(text)
	if complexity != "" {
		a.Complexity = complexity
	}

	type scored struct {
		c       catalog.Component
		score   int
		reasons []string
	}
	var all []scored
	for _, c := range cat.All() {
		score, reasons := ScoreForRecommendation(a, c)
		if score > 0 {
			all = append(all, scored{c: c, score: score, reasons: reasons})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	rec := &Recommendation{
		Analysis:  a,
		Primary:   []RecommendedComponent{},
		Secondary: []RecommendedComponent{},
		Patterns:  []ComponentPattern{},
		Examples:  []CodeExample{},
	}

	taken := make(map[string]bool)
	for i, s := range all {
		if i == maxPrimary {
			break
		}
		rec.Primary = append(rec.Primary, RecommendedComponent{
			Component: s.c,
			Score:     s.score,
			Relevance: Relevance(a, s.c),
			Reasoning: strings.Join(s.reasons, ". "),
		})
		taken[s.c.Name] = true
	}

	rec.Secondary = e.secondary(cat, a, rec.Primary, taken)
	rec.Patterns = e.patterns(cat, a, rec.Primary, rec.Secondary)
	rec.Reasoning = recommendationReasoning(a, len(rec.Primary), len(rec.Secondary))

	for i, p := range rec.Primary {
		if i == maxExamples {
			break
		}
		rec.Examples = append(rec.Examples, codeExample(e.packageName, p.Component))
	}
	return rec
}

// secondary collects complementary components first, then the remaining members of
// the primary categories, capped at maxSecondary
func (e *Engine) secondary(cat *catalog.Catalog, a Analysis, primary []RecommendedComponent, taken map[string]bool) []RecommendedComponent {
	out := []RecommendedComponent{}
	add := func(c catalog.Component, why string) bool {
		if len(out) == maxSecondary {
			return false
		}
		if taken[c.Name] {
			return true
		}
		taken[c.Name] = true
		score, _ := ScoreForRecommendation(a, c)
		out = append(out, RecommendedComponent{Component: c, Score: score, Relevance: Relevance(a, c), Reasoning: why})
		return true
	}

	for _, rule := range complements {
		for _, p := range primary {
			if !rule.match(p.Component) {
				continue
			}
			for _, c := range cat.All() {
				if rule.pick(c) && !add(c, rule.why) {
					return out
				}
			}
			break
		}
	}

	seen := make(map[catalog.Category]bool)
	for _, p := range primary {
		if seen[p.Component.Category] {
			continue
		}
		seen[p.Component.Category] = true
		for _, c := range cat.FilterByCategory(p.Component.Category) {
			if !add(c, fmt.Sprintf("Also in the %s category", c.Category)) {
				return out
			}
		}
	}
	return out
}

// patterns builds a skeleton for every known template the analysis points at
func (e *Engine) patterns(cat *catalog.Catalog, a Analysis, primary, secondary []RecommendedComponent) []ComponentPattern {
	out := []ComponentPattern{}
	for _, t := range patternTemplates {
		if !t.applies(a) {
			continue
		}

		var comps []catalog.Component
		for _, group := range [][]RecommendedComponent{primary, secondary} {
			for _, r := range group {
				if len(comps) < maxPatternComponents && t.fits(r.Component) {
					comps = append(comps, r.Component)
				}
			}
		}
		if len(comps) == 0 {
			for _, c := range cat.FilterByCategory(t.category) {
				if len(comps) < maxPatternComponents && t.fits(c) {
					comps = append(comps, c)
				}
			}
		}
		if len(comps) == 0 {
			continue
		}

		p := ComponentPattern{Name: t.name, Description: t.desc, UseCase: t.useCase, Components: make([]string, 0, len(comps))}
		for _, c := range comps {
			p.Components = append(p.Components, c.Name)
		}
		p.Code = patternCode(e.packageName, t.name, comps)
		out = append(out, p)
	}
	return out
}

func recommendationReasoning(a Analysis, primary, secondary int) string {
	title := cases.Title(language.English)
	sentences := []string{fmt.Sprintf("Detected intent: %s", title.String(strings.ReplaceAll(a.Intent, "-", " ")))}

	if len(a.SuggestedCategories) > 0 {
		names := make([]string, 0, len(a.SuggestedCategories))
		for _, c := range a.SuggestedCategories {
			names = append(names, string(c))
		}
		sentences = append(sentences, "Relevant categories: "+strings.Join(names, ", "))
	}
	if len(a.UIPatterns) > 0 {
		sentences = append(sentences, "UI patterns: "+strings.Join(a.UIPatterns, ", "))
	}
	sentences = append(sentences,
		fmt.Sprintf("Selected %d primary and %d secondary components", primary, secondary),
		fmt.Sprintf("Estimated complexity: %s", a.Complexity))
	return strings.Join(sentences, ". ")
}
