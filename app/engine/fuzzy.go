package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// LevenshteinDistance returns the edit distance between a and b, counted in runes
func LevenshteinDistance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// StringSimilarity returns a typo-tolerant closeness score in [0,1], case-insensitive.
// Containment of one string in the other scores 0.8.
func StringSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// FuzzyMatch is a component with its best similarity to a query
type FuzzyMatch struct {
	Component catalog.Component `json:"component"`
	Score     float64           `json:"score"`
}

// FuzzySearch returns components whose best similarity between the query and their
// name, description or tags reaches threshold, best first
func FuzzySearch(components []catalog.Component, query string, threshold float64) []FuzzyMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return []FuzzyMatch{}
	}

	matches := []FuzzyMatch{}
	for _, c := range components {
		best := 0.0
		for _, kw := range componentKeywords(c) {
			if s := StringSimilarity(query, kw); s > best {
				best = s
			}
		}
		if best >= threshold {
			matches = append(matches, FuzzyMatch{Component: c, Score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func componentKeywords(c catalog.Component) []string {
	kws := make([]string, 0, len(c.Tags)+2)
	kws = append(kws, strings.ToLower(c.Name), strings.ToLower(c.Description))
	for _, t := range c.Tags {
		kws = append(kws, strings.ToLower(t))
	}
	return kws
}
