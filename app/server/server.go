package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

// Config defines server configuration
type Config struct {
	ServerName string
	Version    string
	Listen     string // address for the streamable HTTP transport, stdio when empty
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ServerName == "" {
		return fmt.Errorf("server name is required")
	}
	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
		}
	}
	return nil
}

// Server represents the MCP server instance
type Server struct {
	config Config
	svc    engine.Service
	mcp    *mcp.Server
}

// New creates a new MCP server instance answering tool calls with svc
func New(config Config, svc engine.Service) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if svc == nil {
		return nil, errors.New("catalog service is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    config.ServerName,
		Version: config.Version,
	}, nil)

	server := &Server{
		config: config,
		svc:    svc,
		mcp:    mcpServer,
	}
	server.registerTools()
	return server, nil
}

// SearchInput represents input for searching components
type SearchInput struct {
	Query    string `json:"query" jsonschema:"search terms matched against component names, descriptions, categories and tags"`
	Category string `json:"category,omitempty" jsonschema:"restrict results to one category"`
	Type     string `json:"type,omitempty" jsonschema:"restrict results to one export type"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results, 10 by default"`
}

// DocsInput represents input for reading component documentation
type DocsInput struct {
	ComponentName   string `json:"component_name" jsonschema:"exact component name, case-insensitive"`
	IncludeExamples *bool  `json:"include_examples,omitempty" jsonschema:"include code examples, true by default"`
	IncludeProps    *bool  `json:"include_props,omitempty" jsonschema:"include the props table, true by default"`
	IncludeStyling  *bool  `json:"include_styling,omitempty" jsonschema:"include styling notes, true by default"`
}

// RecommendInput represents input for recommending components
type RecommendInput struct {
	Description string `json:"description" jsonschema:"free-text description of the UI to build"`
	Context     string `json:"context,omitempty" jsonschema:"extra context such as the page or product area"`
	Complexity  string `json:"complexity,omitempty" jsonschema:"override the estimated complexity"`
	Framework   string `json:"framework,omitempty" jsonschema:"target framework for code examples"`
}

// GenerateInput represents input for generating page code
type GenerateInput struct {
	Components  []string `json:"components,omitempty" jsonschema:"component names to compose, in order"`
	Description string   `json:"description,omitempty" jsonschema:"used to pick components when none are named"`
	Framework   string   `json:"framework,omitempty" jsonschema:"target framework, nextjs by default"`
	TypeScript  bool     `json:"typescript,omitempty" jsonschema:"emit TypeScript instead of JavaScript"`
}

// IntegrationInput represents input for integration guidance
type IntegrationInput struct {
	Framework string `json:"framework,omitempty" jsonschema:"target framework, nextjs by default"`
	Topic     string `json:"topic,omitempty" jsonschema:"guide topic, all topics when omitted"`
}

// ErrorOutput is the body of a tool error result
type ErrorOutput struct {
	Error       string   `json:"error"`
	Field       string   `json:"field,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

var frameworkEnum = []any{engine.FrameworkNextJS, engine.FrameworkReact, engine.FrameworkVite}

// Tools returns the tool definitions served over MCP
func Tools() []*mcp.Tool {
	categories := make([]any, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		categories = append(categories, string(c))
	}

	search := inputSchema[SearchInput](map[string][]any{
		"category": categories,
		"type":     {string(catalog.KindComponent), string(catalog.KindHook), string(catalog.KindContext), string(catalog.KindUtility)},
	})
	limitMin, limitMax := 1.0, float64(engine.MaxSearchLimit)
	search.Properties["limit"].Minimum = &limitMin
	search.Properties["limit"].Maximum = &limitMax

	return []*mcp.Tool{
		{
			Name: "search_components",
			Description: "Search the component library by keyword with fuzzy matching. Returns ranked components " +
				"with the reason each matched and its import statement, or suggestions when nothing matches.",
			InputSchema: search,
		},
		{
			Name: "get_component_docs",
			Description: "Get documentation for a component: overview, import, usage, props, styling notes, " +
				"examples and related components. Unknown names return close suggestions.",
			InputSchema: inputSchema[DocsInput](nil),
		},
		{
			Name: "recommend_components",
			Description: "Recommend components for a free-text UI description. Returns primary and secondary " +
				"components, matching UI patterns with code, the reasoning and code examples.",
			InputSchema: inputSchema[RecommendInput](map[string][]any{
				"complexity": {string(engine.ComplexitySimple), string(engine.ComplexityMedium), string(engine.ComplexityComplex)},
				"framework":  frameworkEnum,
			}),
		},
		{
			Name:        "generate_code",
			Description: "Generate a page composing the named components, or the best recommendations for a description.",
			InputSchema: inputSchema[GenerateInput](map[string][]any{"framework": frameworkEnum}),
		},
		{
			Name:        "integration_help",
			Description: "Get step-by-step guidance for installing, setting up, styling and theming the library in a framework.",
			InputSchema: inputSchema[IntegrationInput](map[string][]any{
				"framework": frameworkEnum,
				"topic":     {engine.TopicInstallation, engine.TopicSetup, engine.TopicStyling, engine.TopicTheming},
			}),
		},
	}
}

// inputSchema infers the schema of T and restricts the named properties to enum values
func inputSchema[T any](enums map[string][]any) *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("can't infer input schema: %v", err))
	}
	for name, values := range enums {
		if prop, ok := schema.Properties[name]; ok {
			prop.Enum = values
		}
	}
	return schema
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	tools := make(map[string]*mcp.Tool)
	for _, t := range Tools() {
		tools[t.Name] = t
	}
	mcp.AddTool(s.mcp, tools["search_components"], s.handleSearch)
	mcp.AddTool(s.mcp, tools["get_component_docs"], s.handleDocs)
	mcp.AddTool(s.mcp, tools["recommend_components"], s.handleRecommend)
	mcp.AddTool(s.mcp, tools["generate_code"], s.handleGenerate)
	mcp.AddTool(s.mcp, tools["integration_help"], s.handleIntegration)
}

// handleSearch handles search_components tool calls
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
	slog.Debug("search_components called", "query", input.Query, "category", input.Category, "type", input.Type)

	result, err := s.svc.Search(ctx, engine.SearchRequest{
		Query:    input.Query,
		Category: input.Category,
		Type:     input.Type,
		Limit:    input.Limit,
	})
	return respond("search", result, err)
}

// handleDocs handles get_component_docs tool calls
func (s *Server) handleDocs(ctx context.Context, _ *mcp.CallToolRequest, input DocsInput) (*mcp.CallToolResult, any, error) {
	slog.Debug("get_component_docs called", "component", input.ComponentName)

	result, err := s.svc.Docs(ctx, engine.DocsRequest{
		Name:            input.ComponentName,
		IncludeExamples: boolOr(input.IncludeExamples, true),
		IncludeProps:    boolOr(input.IncludeProps, true),
		IncludeStyling:  boolOr(input.IncludeStyling, true),
	})
	return respond("docs", result, err)
}

// handleRecommend handles recommend_components tool calls
func (s *Server) handleRecommend(ctx context.Context, _ *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, any, error) {
	slog.Debug("recommend_components called", "description", input.Description, "complexity", input.Complexity)

	result, err := s.svc.Recommend(ctx, engine.RecommendRequest{
		Description: input.Description,
		Context:     input.Context,
		Complexity:  input.Complexity,
		Framework:   input.Framework,
	})
	return respond("recommend", result, err)
}

// handleGenerate handles generate_code tool calls
func (s *Server) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, any, error) {
	slog.Debug("generate_code called", "components", input.Components, "framework", input.Framework)

	result, err := s.svc.GenerateCode(ctx, engine.GenerateRequest{
		Components:  input.Components,
		Description: input.Description,
		Framework:   input.Framework,
		TypeScript:  input.TypeScript,
	})
	return respond("generate", result, err)
}

// handleIntegration handles integration_help tool calls
func (s *Server) handleIntegration(ctx context.Context, _ *mcp.CallToolRequest, input IntegrationInput) (*mcp.CallToolResult, any, error) {
	slog.Debug("integration_help called", "framework", input.Framework, "topic", input.Topic)

	result, err := s.svc.IntegrationHelp(ctx, engine.IntegrationRequest{Framework: input.Framework, Topic: input.Topic})
	return respond("integration", result, err)
}

// respond renders a service result as JSON text plus structured output. Caller mistakes
// become tool error results the model can act on, everything else fails the call.
func respond[T any](op string, result *T, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		var (
			notFound *engine.NotFoundError
			invalid  *engine.InvalidInputError
		)
		switch {
		case errors.As(err, &notFound):
			return toolError(ErrorOutput{Error: err.Error(), Suggestions: notFound.Suggestions})
		case errors.As(err, &invalid):
			return toolError(ErrorOutput{Error: err.Error(), Field: invalid.Field})
		}
		return nil, nil, fmt.Errorf("%s failed: %w", op, err)
	}

	// convert to JSON for response
	content, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: string(content),
			},
		},
	}, result, nil
}

func toolError(out ErrorOutput) (*mcp.CallToolResult, any, error) {
	content, err := json.Marshal(out)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal error: %w", err)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: string(content),
			},
		},
	}, nil, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Handler returns the streamable HTTP handler serving this server
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

// Run starts the MCP server with the stdio transport, or streamable HTTP when a listen
// address is configured
func (s *Server) Run(ctx context.Context) error {
	slog.Info("starting MCP server", "name", s.config.ServerName, "version", s.config.Version)

	if s.config.Listen == "" {
		return s.mcp.Run(ctx, &mcp.StdioTransport{}) // nolint:wrapcheck // MCP SDK error is descriptive
	}

	httpServer := &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over HTTP", "addr", s.config.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}
