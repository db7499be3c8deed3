package api

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

// CatalogHandler wires HTTP → engine.Service.
type CatalogHandler struct {
	svc engine.Service
}

// NewHandler returns a handler instance.
func NewHandler(svc engine.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Register mounts the catalog routes on the given router group.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/search", h.search)
	r.Post("/recommend", h.recommend)
	r.Get("/docs/:name", h.docs)
	r.Post("/generate", h.generate)
	r.Get("/integration", h.integration)
	r.Get("/components", h.components)
}

// search handles GET /search?query=login&category=Forms&type=component&limit=10,
// q is accepted as a short alias of query
func (h *CatalogHandler) search(c *fiber.Ctx) error {
	req := engine.SearchRequest{
		Query:    c.Query("query", c.Query("q")),
		Category: c.Query("category"),
		Type:     c.Query("type"),
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a non-negative integer")
		}
		req.Limit = limit
	}
	slog.Debug("search called", "query", req.Query, "category", req.Category, "type", req.Type)

	res, err := h.svc.Search(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

// recommend handles POST /recommend with a RecommendRequest body
func (h *CatalogHandler) recommend(c *fiber.Ctx) error {
	var req engine.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	slog.Debug("recommend called", "description", req.Description, "framework", req.Framework)

	res, err := h.svc.Recommend(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

// docs handles GET /docs/:name, every include flag defaults to true
func (h *CatalogHandler) docs(c *fiber.Ctx) error {
	req := engine.DocsRequest{Name: c.Params("name")}
	var err error
	if req.IncludeExamples, err = queryBool(c, "include_examples", true); err != nil {
		return err
	}
	if req.IncludeProps, err = queryBool(c, "include_props", true); err != nil {
		return err
	}
	if req.IncludeStyling, err = queryBool(c, "include_styling", true); err != nil {
		return err
	}
	slog.Debug("docs called", "component", req.Name)

	res, err := h.svc.Docs(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

// generate handles POST /generate with a GenerateRequest body
func (h *CatalogHandler) generate(c *fiber.Ctx) error {
	var req engine.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	slog.Debug("generate called", "components", req.Components, "framework", req.Framework)

	res, err := h.svc.GenerateCode(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

// integration handles GET /integration?framework=nextjs&topic=styling
func (h *CatalogHandler) integration(c *fiber.Ctx) error {
	req := engine.IntegrationRequest{Framework: c.Query("framework"), Topic: c.Query("topic")}
	res, err := h.svc.IntegrationHelp(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

// components handles GET /components?category=Forms&type=hook
func (h *CatalogHandler) components(c *fiber.Ctx) error {
	req := engine.ListRequest{Category: c.Query("category"), Type: c.Query("type")}
	res, err := h.svc.Components(c.UserContext(), req)
	if err != nil {
		return err // nolint:wrapcheck // rendered by the error handler
	}
	return ok(c, res)
}

func queryBool(c *fiber.Ctx, name string, def bool) (bool, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a boolean", name))
	}
	return b, nil
}
