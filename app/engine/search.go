package engine

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

const (
	// DefaultSearchLimit is used when a request has no limit
	DefaultSearchLimit = 10
	// MaxSearchLimit caps the requested limit
	MaxSearchLimit = 50
)

// Search ranks catalog components against the query. An empty query returns no results
// and no error; a query that matches nothing returns suggestions instead.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	cat, err := e.Catalog()
	if err != nil {
		return nil, err
	}
	f, err := newFilter(req.Category, req.Type)
	if err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &SearchResult{Results: []SearchMatch{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	key, _ := json.Marshal(SearchRequest{Query: strings.ToLower(query), Category: string(f.category), Type: string(f.kind), Limit: limit})
	v, err := e.cached(cat, "search", key, func() (any, error) {
		return e.search(cat, f, query, limit), nil
	})
	if err != nil {
		return nil, err
	}
	// cached results are shared between queries differing only in case
	res := *v.(*SearchResult)
	res.Query = query
	return &res, nil
}

func (e *Engine) search(cat *catalog.Catalog, f filter, query string, limit int) *SearchResult {
	matches := []SearchMatch{}
	for _, c := range cat.All() {
		if !f.match(c) {
			continue
		}
		score, reasons := ScoreForSearch(query, c)
		if score <= 0 {
			continue
		}
		matches = append(matches, SearchMatch{
			Component:   c,
			Score:       score,
			MatchReason: strings.Join(reasons, "; "),
			Import:      importStatement(e.packageName, c),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result := &SearchResult{Query: query, Total: len(matches)}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	result.Results = matches

	if result.Total == 0 {
		result.Suggestions = searchSuggestions(cat, query)
	}
	return result
}
