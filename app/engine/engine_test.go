package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

func fixtureComponents() []catalog.Component {
	return []catalog.Component{
		{Name: "Button", Description: "Base button with variants", Category: catalog.CategoryUI},
		{Name: "SubmitButton", Description: "Form submit button with loading state", Category: catalog.CategoryForms, Tags: []string{"button", "action"}},
		{Name: "InputText", Description: "Text input field with validation", Category: catalog.CategoryForms},
		{Name: "LoginForm", Description: "Email and password login form", Category: catalog.CategoryAuth},
		{Name: "SessionProvider", Description: "Provides the user session", Category: catalog.CategoryAuth},
		{Name: "DataTable", Description: "Sortable data table", Category: catalog.CategoryUI},
		{Name: "Pagination", Description: "Page navigation controls", Category: catalog.CategoryUI},
		{Name: "Modal", Description: "Dialog overlay", Category: catalog.CategoryUI},
		{Name: "useAuth", Description: "Hook returning the current user", Category: catalog.CategoryAuth},
	}
}

func fixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(fixtureComponents())
	require.NoError(t, err)
	return cat
}

func fixtureComponent(t *testing.T, name string) catalog.Component {
	t.Helper()
	c, ok := fixtureCatalog(t).FindByName(name)
	require.True(t, ok, "fixture %s", name)
	return c
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Params{Catalog: fixtureCatalog(t)})
}

// swapProvider lets tests replace the catalog between calls
type swapProvider struct {
	mu  sync.Mutex
	cat *catalog.Catalog
	err error
}

func (p *swapProvider) Catalog() (*catalog.Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cat, p.err
}

func (p *swapProvider) set(cat *catalog.Catalog) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cat = cat
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, DefaultPackageName, e.PackageName())
	assert.Nil(t, e.cache)

	e = New(Params{Catalog: fixtureCatalog(t), PackageName: "@acme/ui", CacheTTL: time.Minute})
	assert.Equal(t, "@acme/ui", e.PackageName())
	assert.NotNil(t, e.cache)
}

func TestEngine_CatalogError(t *testing.T) {
	e := New(Params{Catalog: &swapProvider{err: errors.New("boom")}})
	_, err := e.Search(context.Background(), SearchRequest{Query: "button"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
	assert.Contains(t, err.Error(), "boom")
}

func TestEngine_CanceledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Search(ctx, SearchRequest{Query: "button"})
	assert.Equal(t, context.Canceled, err)
	_, err = e.Recommend(ctx, RecommendRequest{Description: "login form"})
	assert.Equal(t, context.Canceled, err)
	_, err = e.Docs(ctx, DocsRequest{Name: "Button"})
	assert.Equal(t, context.Canceled, err)
	_, err = e.Components(ctx, ListRequest{})
	assert.Equal(t, context.Canceled, err)
}

func TestEngine_Components(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     ListRequest
		want    int
		wantErr string
	}{
		{name: "all", req: ListRequest{}, want: 9},
		{name: "category", req: ListRequest{Category: "auth"}, want: 3},
		{name: "type", req: ListRequest{Type: "hook"}, want: 1},
		{name: "category and type", req: ListRequest{Category: "Auth", Type: "context"}, want: 1},
		{name: "unknown category", req: ListRequest{Category: "Widgets"}, wantErr: "category"},
		{name: "unknown type", req: ListRequest{Type: "class"}, wantErr: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Components(ctx, tt.req)
			if tt.wantErr != "" {
				var inv *InvalidInputError
				require.ErrorAs(t, err, &inv)
				assert.Equal(t, tt.wantErr, inv.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Total)
			assert.Len(t, res.Components, tt.want)
		})
	}
}

func TestEngine_ResultCache(t *testing.T) {
	p := &swapProvider{cat: fixtureCatalog(t)}
	e := New(Params{Catalog: p, CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := e.Search(ctx, SearchRequest{Query: "button"})
	require.NoError(t, err)
	second, err := e.Search(ctx, SearchRequest{Query: "BUTTON"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Results)
	assert.Same(t, &first.Results[0], &second.Results[0], "same normalized request should be served from cache")
	assert.Equal(t, "button", first.Query)
	assert.Equal(t, "BUTTON", second.Query, "query echoes the caller's casing")

	rec1, err := e.Recommend(ctx, RecommendRequest{Description: "login form"})
	require.NoError(t, err)
	rec2, err := e.Recommend(ctx, RecommendRequest{Description: "login form"})
	require.NoError(t, err)
	assert.Same(t, rec1, rec2)

	// a reloaded catalog changes the checksum and so the cache key
	reloaded, err := catalog.New(append(fixtureComponents(),
		catalog.Component{Name: "IconButton", Description: "Button with an icon", Category: catalog.CategoryUI}))
	require.NoError(t, err)
	p.set(reloaded)

	third, err := e.Search(ctx, SearchRequest{Query: "button"})
	require.NoError(t, err)
	require.NotEmpty(t, third.Results)
	assert.NotSame(t, &first.Results[0], &third.Results[0])
	assert.Equal(t, 3, third.Total)
}

func TestEngine_NoCache(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Search(ctx, SearchRequest{Query: "button"})
	require.NoError(t, err)
	second, err := e.Search(ctx, SearchRequest{Query: "button"})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
}

func TestEngine_ConcurrentCachedSearch(t *testing.T) {
	e := New(Params{Catalog: fixtureCatalog(t), CacheTTL: time.Minute})

	var wg sync.WaitGroup
	results := make([]*SearchResult, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Search(context.Background(), SearchRequest{Query: "button"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, 2, r.Total)
	}
}
