package engine

import (
	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// SearchRequest is a ranked component search
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchMatch is a single ranked search hit
type SearchMatch struct {
	Component   catalog.Component `json:"component"`
	Score       int               `json:"score"`
	MatchReason string            `json:"match_reason"`
	Import      string            `json:"import"`
}

// SearchResult contains ranked matches, Total counts matches before the limit
type SearchResult struct {
	Query       string        `json:"query"`
	Results     []SearchMatch `json:"results"`
	Total       int           `json:"total"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// RecommendRequest describes the UI to build in free text
type RecommendRequest struct {
	Description string `json:"description"`
	Context     string `json:"context,omitempty"`
	Complexity  string `json:"complexity,omitempty"`
	Framework   string `json:"framework,omitempty"`
}

// RecommendedComponent is a component picked for a description
type RecommendedComponent struct {
	Component catalog.Component `json:"component"`
	Score     int               `json:"score"`
	Relevance int               `json:"relevance"`
	Reasoning string            `json:"reasoning"`
}

// ComponentPattern is a known composition of components with a code skeleton
type ComponentPattern struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	UseCase     string   `json:"use_case"`
	Components  []string `json:"components"`
	Code        string   `json:"code"`
}

// CodeExample is a usage snippet for one component
type CodeExample struct {
	Component string `json:"component"`
	Title     string `json:"title"`
	Code      string `json:"code"`
}

// Recommendation is the assembled answer to a RecommendRequest
type Recommendation struct {
	Analysis  Analysis               `json:"analysis"`
	Primary   []RecommendedComponent `json:"primary"`
	Secondary []RecommendedComponent `json:"secondary"`
	Patterns  []ComponentPattern     `json:"patterns"`
	Reasoning string                 `json:"reasoning"`
	Examples  []CodeExample          `json:"examples"`
}

// DocsRequest asks for documentation of a named component
type DocsRequest struct {
	Name            string `json:"component_name"`
	IncludeExamples bool   `json:"include_examples,omitempty"`
	IncludeProps    bool   `json:"include_props,omitempty"`
	IncludeStyling  bool   `json:"include_styling,omitempty"`
}

// Documentation describes one component for consumers
type Documentation struct {
	Component catalog.Component `json:"component"`
	Import    string            `json:"import"`
	Usage     string            `json:"usage"`
	Overview  string            `json:"overview,omitempty"`
	Examples  []CodeExample     `json:"examples,omitempty"`
	Props     []Prop            `json:"props,omitempty"`
	Styling   []string          `json:"styling,omitempty"`
	Related   []string          `json:"related,omitempty"`
}

// GenerateRequest asks for a code snippet composing named components or, when no names
// are given, the best recommendations for the description
type GenerateRequest struct {
	Components  []string `json:"components,omitempty"`
	Description string   `json:"description,omitempty"`
	Framework   string   `json:"framework,omitempty"`
	TypeScript  bool     `json:"typescript,omitempty"`
}

// GeneratedCode is a composed page snippet
type GeneratedCode struct {
	Framework  string   `json:"framework"`
	Filename   string   `json:"filename"`
	Components []string `json:"components"`
	Code       string   `json:"code"`
}

// IntegrationRequest asks for setup guidance
type IntegrationRequest struct {
	Framework string `json:"framework,omitempty"`
	Topic     string `json:"topic,omitempty"`
}

// IntegrationStep is one setup instruction with an optional snippet
type IntegrationStep struct {
	Title   string `json:"title"`
	Details string `json:"details"`
	Code    string `json:"code,omitempty"`
}

// IntegrationGuide is setup guidance for a framework and topic
type IntegrationGuide struct {
	Framework string            `json:"framework"`
	Topic     string            `json:"topic"`
	Steps     []IntegrationStep `json:"steps"`
	Notes     []string          `json:"notes,omitempty"`
}

// ListRequest narrows the component listing
type ListRequest struct {
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
}

// ComponentList is the catalog listing
type ComponentList struct {
	Components []catalog.Component `json:"components"`
	Total      int                 `json:"total"`
}
