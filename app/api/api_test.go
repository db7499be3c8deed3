package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
	Suggestions []string        `json:"suggestions"`
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	cat, err := catalog.New([]catalog.Component{
		{Name: "Button", Description: "Clickable button", Category: catalog.CategoryUI},
		{Name: "SubmitButton", Description: "Form submit button", Category: catalog.CategoryForms},
		{Name: "InputText", Description: "Text input field", Category: catalog.CategoryForms},
		{Name: "LoginForm", Description: "Email and password login form", Category: catalog.CategoryAuth},
		{Name: "Modal", Description: "Dialog overlay", Category: catalog.CategoryUI},
	})
	require.NoError(t, err)
	return New(Params{
		Service: engine.New(engine.Params{Catalog: cat}),
		Version: "test",
		Tools: []ToolInfo{
			{Name: "search_components", Description: "Search components"},
			{Name: "get_component_docs", Description: "Component docs"},
		},
	})
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestAPI_Search(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodGet, "/api/v1/search?query=button", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)

	var res engine.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "Button", res.Results[0].Component.Name)
	assert.Equal(t, `import { Button } from "@instincthub/react-ui";`, res.Results[0].Import)

	status, env = call(t, app, http.MethodGet, "/api/v1/search?q=button&limit=1&category=forms", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, "SubmitButton", res.Results[0].Component.Name)
}

func TestAPI_SearchBadRequest(t *testing.T) {
	app := testApp(t)
	tests := []struct {
		name    string
		target  string
		wantErr string
	}{
		{"bad limit", "/api/v1/search?query=button&limit=abc", "limit must be a non-negative integer"},
		{"negative limit", "/api/v1/search?query=button&limit=-1", "limit must be a non-negative integer"},
		{"unknown category", "/api/v1/search?query=button&category=Widgets", "unknown category"},
		{"unknown type", "/api/v1/search?query=button&type=class", "unknown type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, app, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, tt.wantErr)
			assert.Empty(t, env.Data)
		})
	}
}

func TestAPI_Recommend(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodPost, "/api/v1/recommend", `{"description":"I need a login form"}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var rec engine.Recommendation
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	require.NotEmpty(t, rec.Primary)
	assert.Equal(t, "LoginForm", rec.Primary[0].Component.Name)
	assert.NotEmpty(t, rec.Reasoning)

	status, env = call(t, app, http.MethodPost, "/api/v1/recommend", `{"description":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "description is required")

	status, env = call(t, app, http.MethodPost, "/api/v1/recommend", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid JSON body", env.Error)
}

func TestAPI_Docs(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodGet, "/api/v1/docs/InputText", "")
	require.Equal(t, http.StatusOK, status)
	var doc engine.Documentation
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "InputText", doc.Component.Name)
	assert.NotEmpty(t, doc.Examples)
	assert.NotEmpty(t, doc.Props)
	assert.NotEmpty(t, doc.Styling)
	assert.Equal(t, []string{"SubmitButton"}, doc.Related)

	status, env = call(t, app, http.MethodGet, "/api/v1/docs/InputText?include_examples=false&include_props=0&include_styling=false", "")
	require.Equal(t, http.StatusOK, status)
	doc = engine.Documentation{}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Empty(t, doc.Examples)
	assert.Empty(t, doc.Props)
	assert.Empty(t, doc.Styling)

	status, env = call(t, app, http.MethodGet, "/api/v1/docs/InputText?include_props=maybe", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "include_props must be a boolean", env.Error)
}

func TestAPI_DocsNotFound(t *testing.T) {
	status, env := call(t, testApp(t), http.MethodGet, "/api/v1/docs/Buton", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, `component "Buton" not found`)
	require.NotEmpty(t, env.Suggestions)
	assert.Equal(t, "Button", env.Suggestions[0])
}

func TestAPI_Generate(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodPost, "/api/v1/generate", `{"components":["InputText","SubmitButton"],"framework":"react","typescript":true}`)
	require.Equal(t, http.StatusOK, status)
	var code engine.GeneratedCode
	require.NoError(t, json.Unmarshal(env.Data, &code))
	assert.Equal(t, "react", code.Framework)
	assert.Equal(t, "src/App.tsx", code.Filename)
	assert.Equal(t, []string{"InputText", "SubmitButton"}, code.Components)
	assert.Contains(t, code.Code, "InputText")

	status, env = call(t, app, http.MethodPost, "/api/v1/generate", `{"components":["Nope"]}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, env.Error, `"Nope" not found`)

	status, env = call(t, app, http.MethodPost, "/api/v1/generate", `{"components":["Button"],"framework":"angular"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "framework")
}

func TestAPI_Integration(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodGet, "/api/v1/integration?framework=vite&topic=styling", "")
	require.Equal(t, http.StatusOK, status)
	var guide engine.IntegrationGuide
	require.NoError(t, json.Unmarshal(env.Data, &guide))
	assert.Equal(t, "vite", guide.Framework)
	assert.Equal(t, "styling", guide.Topic)
	assert.NotEmpty(t, guide.Steps)

	status, env = call(t, app, http.MethodGet, "/api/v1/integration?topic=deploy", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "unknown topic")
}

func TestAPI_Components(t *testing.T) {
	app := testApp(t)

	status, env := call(t, app, http.MethodGet, "/api/v1/components?category=Forms", "")
	require.Equal(t, http.StatusOK, status)
	var list engine.ComponentList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Total)

	status, env = call(t, app, http.MethodGet, "/api/v1/components", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 5, list.Total)
}

func TestAPI_Health(t *testing.T) {
	status, env := call(t, testApp(t), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","version":"test","components":5}`, string(env.Data))

	app := New(Params{Service: &stubService{err: errors.New("catalog file is broken")}, Version: "test"})
	status, env = call(t, app, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, env.Success)
	assert.Equal(t, "catalog file is broken", env.Error)
}

func TestAPI_UnknownRoute(t *testing.T) {
	status, env := call(t, testApp(t), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "route not found: GET /api/v1/nope", env.Error)
}

func TestAPI_ErrorStatus(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantStatus      int
		wantSuggestions []string
	}{
		{"invalid input", &engine.InvalidInputError{Field: "query", Message: "bad"}, http.StatusBadRequest, nil},
		{"not found", &engine.NotFoundError{Name: "X", Suggestions: []string{"Y"}}, http.StatusNotFound, []string{"Y"}},
		{"wrapped not found", fmt.Errorf("lookup: %w", &engine.NotFoundError{Name: "X"}), http.StatusNotFound, nil},
		{"upstream", &engine.UpstreamError{Op: "search", Err: errors.New("connection refused")}, http.StatusBadGateway, nil},
		{"other", errors.New("boom"), http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(Params{Service: &stubService{err: tt.err}})
			status, env := call(t, app, http.MethodGet, "/api/v1/components", "")
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.err.Error(), env.Error)
			assert.Equal(t, tt.wantSuggestions, env.Suggestions)
		})
	}
}

func TestAPI_ToolStream(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools/stream", http.NoBody)
	resp, err := testApp(t).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "id: 1\nevent: tool\ndata: {\"name\":\"search_components\",\"description\":\"Search components\"}\n\n"+
		"id: 2\nevent: tool\ndata: {\"name\":\"get_component_docs\",\"description\":\"Component docs\"}\n\n"+
		"id: 3\nevent: done\ndata: {\"count\":2}\n\n", string(body))
}

// stubService fails every call with err
type stubService struct {
	err error
}

func (s *stubService) Search(context.Context, engine.SearchRequest) (*engine.SearchResult, error) {
	return nil, s.err
}

func (s *stubService) Recommend(context.Context, engine.RecommendRequest) (*engine.Recommendation, error) {
	return nil, s.err
}

func (s *stubService) Docs(context.Context, engine.DocsRequest) (*engine.Documentation, error) {
	return nil, s.err
}

func (s *stubService) GenerateCode(context.Context, engine.GenerateRequest) (*engine.GeneratedCode, error) {
	return nil, s.err
}

func (s *stubService) IntegrationHelp(context.Context, engine.IntegrationRequest) (*engine.IntegrationGuide, error) {
	return nil, s.err
}

func (s *stubService) Components(context.Context, engine.ListRequest) (*engine.ComponentList, error) {
	return nil, s.err
}
