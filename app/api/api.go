// Package api serves the engine over a JSON HTTP API. Every response uses the same
// envelope: {success, data?, error?, suggestions?}.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

// Response is the envelope of every API response
type Response struct {
	Success     bool     `json:"success"`
	Data        any      `json:"data,omitempty"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ToolInfo describes an MCP tool for the tool stream
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Params configures the API
type Params struct {
	Service      engine.Service
	Tools        []ToolInfo
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AccessLog    io.Writer // nil disables request logging
}

// New creates the fiber app with all routes mounted under /api/v1
func New(params Params) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "ui-catalog-mcp",
		ReadTimeout:           params.ReadTimeout,
		WriteTimeout:          params.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if params.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: params.AccessLog}))
	}

	v1 := app.Group("/api/v1")
	NewHandler(params.Service).Register(v1)
	NewHealthHandler(params.Service, params.Version).Register(v1)
	NewToolsHandler(params.Tools).Register(v1)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found: "+c.Method()+" "+c.Path())
	})
	return app
}

// Run serves the app on addr until ctx is canceled
func Run(ctx context.Context, app *fiber.App, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP API", "addr", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err // nolint:wrapcheck // listen error is descriptive
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err // nolint:wrapcheck // shutdown error is descriptive
		}
		return nil
	}
}

// errorHandler renders errors as envelopes with a status derived from the error kind
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	resp := Response{Error: err.Error()}

	var (
		fe       *fiber.Error
		invalid  *engine.InvalidInputError
		notFound *engine.NotFoundError
		upstream *engine.UpstreamError
	)
	switch {
	case errors.As(err, &fe):
		status = fe.Code
		resp.Error = fe.Message
	case errors.As(err, &invalid):
		status = fiber.StatusBadRequest
	case errors.As(err, &notFound):
		status = fiber.StatusNotFound
		resp.Suggestions = notFound.Suggestions
	case errors.As(err, &upstream):
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(resp)
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}
