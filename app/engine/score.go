package engine

import (
	"fmt"
	"strings"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// search scoring weights, one rule per term
const (
	scoreExactName    = 100
	scoreNamePrefix   = 80
	scoreNameContains = 60
	scoreDescription  = 40
	scoreCategory     = 20
	scoreTag          = 15
	scoreFuzzy        = 10

	fuzzySearchThreshold = 0.7
)

// recommendation scoring weights, rule families add up
const (
	recCategory    = 10
	recKeywordName = 15
	recKeywordDesc = 8
	recKeywordTag  = 5
	recPattern     = 7
)

// ScoreForSearch scores a component against a whitespace separated query.
// Each term fires only its first matching rule; term scores are summed.
// The search scale is independent from ScoreForRecommendation.
func ScoreForSearch(query string, c catalog.Component) (score int, reasons []string) {
	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)
	category := strings.ToLower(string(c.Category))

	for _, term := range strings.Fields(strings.ToLower(query)) {
		switch {
		case name == term:
			score += scoreExactName
			reasons = append(reasons, "Exact name match")
		case strings.HasPrefix(name, term):
			score += scoreNamePrefix
			reasons = append(reasons, fmt.Sprintf("Name starts with %q", term))
		case strings.Contains(name, term):
			score += scoreNameContains
			reasons = append(reasons, fmt.Sprintf("Name contains %q", term))
		case strings.Contains(desc, term):
			score += scoreDescription
			reasons = append(reasons, fmt.Sprintf("Description mentions %q", term))
		case strings.Contains(category, term):
			score += scoreCategory
			reasons = append(reasons, fmt.Sprintf("Category %s matches", c.Category))
		default:
			if tag, ok := tagContaining(c, term); ok {
				score += scoreTag
				reasons = append(reasons, fmt.Sprintf("Tag %q matches", tag))
				continue
			}
			if StringSimilarity(name, term) > fuzzySearchThreshold || StringSimilarity(desc, term) > fuzzySearchThreshold {
				score += scoreFuzzy
				reasons = append(reasons, fmt.Sprintf("Similar to %q", term))
			}
		}
	}
	return score, reasons
}

func tagContaining(c catalog.Component, term string) (string, bool) {
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return t, true
		}
	}
	return "", false
}

// ScoreForRecommendation scores a component against an analysis. Unlike search scoring
// every rule family contributes independently.
func ScoreForRecommendation(a Analysis, c catalog.Component) (score int, reasons []string) {
	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)

	if a.HasCategory(c.Category) {
		score += recCategory
		reasons = append(reasons, fmt.Sprintf("Matches %s category", c.Category))
	}

	var nameHits, descHits, tagHits []string
	for _, kw := range a.Keywords {
		if strings.Contains(name, kw) {
			score += recKeywordName
			nameHits = append(nameHits, kw)
		}
		if strings.Contains(desc, kw) {
			score += recKeywordDesc
			descHits = append(descHits, kw)
		}
		if c.HasTag(kw) {
			score += recKeywordTag
			tagHits = append(tagHits, kw)
		}
	}
	if len(nameHits) > 0 {
		reasons = append(reasons, "Name matches "+strings.Join(nameHits, ", "))
	}
	if len(descHits) > 0 {
		reasons = append(reasons, "Description mentions "+strings.Join(descHits, ", "))
	}
	if len(tagHits) > 0 {
		reasons = append(reasons, "Tagged "+strings.Join(tagHits, ", "))
	}

	for _, p := range uiPatterns {
		if !a.HasPattern(p.name) {
			continue
		}
		for _, frag := range p.names {
			if strings.Contains(name, strings.ToLower(frag)) {
				score += recPattern
				reasons = append(reasons, "Fits "+p.name+" pattern")
				break
			}
		}
	}

	if bonus := intentBonus[a.Intent][c.Category]; bonus > 0 {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("Suits %s intent", a.Intent))
	}
	return score, reasons
}

// Relevance is the user-facing match percentage. It is computed separately from the
// ranking score and can order components differently.
func Relevance(a Analysis, c catalog.Component) int {
	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)

	relevance := 0
	if a.HasCategory(c.Category) {
		relevance += 30
	}
	for _, kw := range a.Keywords {
		if strings.Contains(name, kw) {
			relevance += 20
		}
		if strings.Contains(desc, kw) {
			relevance += 10
		}
	}
	return min(relevance, 100)
}
