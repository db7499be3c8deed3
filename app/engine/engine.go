// Package engine implements component search, recommendation, documentation and code
// generation over the catalog. Scoring and extraction are pure functions; Engine adds
// request validation, filtering and an optional result cache on top of them.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"golang.org/x/sync/singleflight"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// DefaultPackageName is the npm package used in generated import statements
const DefaultPackageName = "@instincthub/react-ui"

const defaultCacheSize = 1000

// Service is the set of operations exposed by the MCP server and the HTTP API.
// Engine implements it locally, remote.Client implements it over HTTP.
type Service interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error)
	Docs(ctx context.Context, req DocsRequest) (*Documentation, error)
	GenerateCode(ctx context.Context, req GenerateRequest) (*GeneratedCode, error)
	IntegrationHelp(ctx context.Context, req IntegrationRequest) (*IntegrationGuide, error)
	Components(ctx context.Context, req ListRequest) (*ComponentList, error)
}

// Prop describes one component property in hand-written docs
type Prop struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ComponentDoc is hand-written documentation attached to a component
type ComponentDoc struct {
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Props       []Prop   `json:"props,omitempty"`
	Styling     []string `json:"styling,omitempty"`
	Body        string   `json:"body,omitempty"`
}

// DocStore supplies hand-written documentation. Find returns nil without error when
// the component has no doc.
type DocStore interface {
	Find(ctx context.Context, name string) (*ComponentDoc, error)
}

// Params configures an Engine
type Params struct {
	Catalog     catalog.Provider
	Docs        DocStore      // optional
	PackageName string        // defaults to DefaultPackageName
	CacheTTL    time.Duration // zero disables result caching
	CacheSize   int
}

// Engine answers catalog queries
type Engine struct {
	catalog     catalog.Provider
	docs        DocStore
	packageName string

	cache    cache.Cache[string, any]
	cacheTTL time.Duration
	group    singleflight.Group
}

// New creates an engine
func New(params Params) *Engine {
	e := &Engine{
		catalog:     params.Catalog,
		docs:        params.Docs,
		packageName: params.PackageName,
	}
	if e.packageName == "" {
		e.packageName = DefaultPackageName
	}
	if params.CacheTTL > 0 {
		size := params.CacheSize
		if size <= 0 {
			size = defaultCacheSize
		}
		e.cache = cache.NewCache[string, any]().WithTTL(params.CacheTTL).WithMaxKeys(size)
		e.cacheTTL = params.CacheTTL
	}
	return e
}

// PackageName returns the npm package used in import statements
func (e *Engine) PackageName() string {
	return e.packageName
}

// Catalog returns the catalog in effect
func (e *Engine) Catalog() (*catalog.Catalog, error) {
	cat, err := e.catalog.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// cached returns the value for key, computing it once for concurrent callers.
// The key is scoped to the catalog checksum so reloads never serve stale results.
func (e *Engine) cached(cat *catalog.Catalog, op string, key []byte, compute func() (any, error)) (any, error) {
	if e.cache == nil {
		return compute()
	}

	k := op + ":" + strconv.FormatUint(cat.Checksum(), 16) + ":" + strconv.FormatUint(xxhash.Sum64(key), 16)
	if v, ok := e.cache.Get(k); ok {
		return v, nil
	}

	v, err, _ := e.group.Do(k, func() (any, error) {
		res, err := compute()
		if err != nil {
			return nil, err
		}
		e.cache.Set(k, res, e.cacheTTL)
		return res, nil
	})
	return v, err // nolint:wrapcheck // compute errors are already descriptive
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err() // nolint:wrapcheck // context errors should be returned as-is
	default:
		return nil
	}
}

// Components lists catalog entries, optionally narrowed by category and type
func (e *Engine) Components(ctx context.Context, req ListRequest) (*ComponentList, error) {
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

	out := &ComponentList{Components: []catalog.Component{}}
	for _, c := range cat.All() {
		if f.match(c) {
			out.Components = append(out.Components, c)
		}
	}
	out.Total = len(out.Components)
	return out, nil
}

// filter narrows components by category and kind, empty fields match everything
type filter struct {
	category catalog.Category
	kind     catalog.Kind
}

func newFilter(category, kind string) (filter, error) {
	var f filter
	if category != "" {
		c, ok := catalog.ParseCategory(category)
		if !ok {
			return f, &InvalidInputError{Field: "category", Message: fmt.Sprintf("unknown category %q", category)}
		}
		f.category = c
	}
	if kind != "" {
		k, ok := catalog.ParseKind(kind)
		if !ok {
			return f, &InvalidInputError{Field: "type", Message: fmt.Sprintf("unknown type %q", kind)}
		}
		f.kind = k
	}
	return f, nil
}

func (f filter) match(c catalog.Component) bool {
	if f.category != "" && c.Category != f.category {
		return false
	}
	if f.kind != "" && c.Type != f.kind {
		return false
	}
	return true
}
