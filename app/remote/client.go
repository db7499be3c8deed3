// Package remote implements engine.Service on top of a remote catalog API, so the MCP
// server can front a shared catalog service instead of a local catalog.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

const defaultTimeout = 10 * time.Second

// Client calls the /api/v1 endpoints of a remote service
type Client struct {
	baseURL string
	timeout time.Duration
}

// New creates a client for the API served at baseURL, e.g. http://catalog:8080
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/api/v1", timeout: timeout}
}

// envelope mirrors the api response with the payload left raw
type envelope struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
	Suggestions []string        `json:"suggestions"`
}

// Search calls GET /search
func (c *Client) Search(ctx context.Context, req engine.SearchRequest) (*engine.SearchResult, error) {
	q := url.Values{}
	q.Set("query", req.Query)
	setIf(q, "category", req.Category)
	setIf(q, "type", req.Type)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	var res engine.SearchResult
	if err := c.get(ctx, "search", "/search", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Recommend calls POST /recommend
func (c *Client) Recommend(ctx context.Context, req engine.RecommendRequest) (*engine.Recommendation, error) {
	var res engine.Recommendation
	if err := c.post(ctx, "recommend", "/recommend", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Docs calls GET /docs/:name
func (c *Client) Docs(ctx context.Context, req engine.DocsRequest) (*engine.Documentation, error) {
	if strings.TrimSpace(req.Name) == "" {
		// an empty path segment would hit a different route
		return nil, &engine.InvalidInputError{Field: "component_name", Message: "component_name is required"}
	}
	q := url.Values{}
	q.Set("include_examples", strconv.FormatBool(req.IncludeExamples))
	q.Set("include_props", strconv.FormatBool(req.IncludeProps))
	q.Set("include_styling", strconv.FormatBool(req.IncludeStyling))
	var res engine.Documentation
	if err := c.get(ctx, "docs", "/docs/"+url.PathEscape(req.Name), q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GenerateCode calls POST /generate
func (c *Client) GenerateCode(ctx context.Context, req engine.GenerateRequest) (*engine.GeneratedCode, error) {
	var res engine.GeneratedCode
	if err := c.post(ctx, "generate", "/generate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// IntegrationHelp calls GET /integration
func (c *Client) IntegrationHelp(ctx context.Context, req engine.IntegrationRequest) (*engine.IntegrationGuide, error) {
	q := url.Values{}
	setIf(q, "framework", req.Framework)
	setIf(q, "topic", req.Topic)
	var res engine.IntegrationGuide
	if err := c.get(ctx, "integration", "/integration", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Components calls GET /components
func (c *Client) Components(ctx context.Context, req engine.ListRequest) (*engine.ComponentList, error) {
	q := url.Values{}
	setIf(q, "category", req.Category)
	setIf(q, "type", req.Type)
	var res engine.ComponentList
	if err := c.get(ctx, "components", "/components", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err // nolint:wrapcheck // context errors should be returned as-is
	}
	agent := fiber.Get(c.baseURL + path).QueryString(q.Encode())
	return c.do(ctx, op, agent, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err // nolint:wrapcheck // context errors should be returned as-is
	}
	agent := fiber.Post(c.baseURL + path).JSON(body)
	return c.do(ctx, op, agent, out)
}

// do sends the request and decodes the envelope into out. The agent has no context
// support, so the deadline of ctx narrows the client timeout.
func (c *Client) do(ctx context.Context, op string, agent *fiber.Agent, out any) error {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	agent.Timeout(timeout)

	start := time.Now()
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return &engine.UpstreamError{Op: op, Err: errors.Join(errs...)}
	}
	slog.Debug("upstream call", "op", op, "status", code, "duration", time.Since(start))

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &engine.UpstreamError{Op: op, Status: code, Err: fmt.Errorf("invalid response: %w", err)}
	}

	if !env.Success {
		return responseError(op, code, env)
	}
	if len(env.Data) == 0 {
		return &engine.UpstreamError{Op: op, Status: code, Err: errors.New("response has no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &engine.UpstreamError{Op: op, Status: code, Err: fmt.Errorf("invalid response data: %w", err)}
	}
	return nil
}

var notFoundName = regexp.MustCompile(`component "([^"]+)" not found`)

// responseError turns an error envelope back into the engine error it was rendered from
func responseError(op string, code int, env envelope) error {
	switch code {
	case fiber.StatusNotFound:
		if m := notFoundName.FindStringSubmatch(env.Error); m != nil {
			return &engine.NotFoundError{Name: m[1], Suggestions: env.Suggestions}
		}
	case fiber.StatusBadRequest:
		return invalidInput(env.Error)
	}
	msg := env.Error
	if msg == "" {
		msg = "request failed"
	}
	return &engine.UpstreamError{Op: op, Status: code, Err: errors.New(msg)}
}

// invalidInput parses "invalid input for <field>: <message>" and plain messages
func invalidInput(msg string) *engine.InvalidInputError {
	if rest, ok := strings.CutPrefix(msg, "invalid input for "); ok {
		if field, message, ok := strings.Cut(rest, ": "); ok {
			return &engine.InvalidInputError{Field: field, Message: message}
		}
	}
	return &engine.InvalidInputError{Message: strings.TrimPrefix(msg, "invalid input: ")}
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
