package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/surgebase/porter2"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

const (
	maxSuggestions      = 5
	suggestionThreshold = 0.5
	minStemLength       = 3
)

// nearNames returns catalog names close to query: edit-distance similar names, fuzzy
// subsequence hits and names containing a stemmed query term, closest first
func nearNames(cat *catalog.Catalog, query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	names := cat.Names()
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	type candidate struct {
		name string
		sim  float64
		rank int
	}
	picked := make(map[int]*candidate)
	add := func(idx, rank int) {
		if _, ok := picked[idx]; ok {
			return
		}
		picked[idx] = &candidate{name: names[idx], sim: StringSimilarity(query, lowered[idx]), rank: rank}
	}

	for i, n := range lowered {
		if StringSimilarity(query, n) >= suggestionThreshold {
			add(i, 0)
		}
	}

	compact := strings.ReplaceAll(query, " ", "")
	if len(compact) >= minStemLength {
		for rank, m := range fuzzy.Find(compact, lowered) {
			add(m.Index, rank+1)
		}
	}

	for _, term := range strings.Fields(query) {
		stem := porter2.Stem(term)
		if len(stem) < minStemLength {
			continue
		}
		for i, n := range lowered {
			if strings.Contains(n, stem) {
				add(i, len(lowered)+1)
			}
		}
	}

	result := make([]*candidate, 0, len(picked))
	for _, c := range picked {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].sim != result[j].sim {
			return result[i].sim > result[j].sim
		}
		if result[i].rank != result[j].rank {
			return result[i].rank < result[j].rank
		}
		return result[i].name < result[j].name
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range result {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// searchSuggestions explains what to try when a search matched nothing
func searchSuggestions(cat *catalog.Catalog, query string) []string {
	var out []string
	for _, n := range nearNames(cat, query) {
		out = append(out, fmt.Sprintf("Did you mean %s?", n))
	}

	var categories []string
	for _, c := range catalog.Categories {
		if len(cat.FilterByCategory(c)) > 0 {
			categories = append(categories, string(c))
		}
	}
	if len(categories) > 0 {
		out = append(out, "Browse by category: "+strings.Join(categories, ", "))
	}
	out = append(out, "Try a broader term such as \"button\", \"form\" or \"modal\"")
	return out
}
