package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ToolsHandler streams the MCP tool listing as server-sent events.
type ToolsHandler struct {
	tools []ToolInfo
}

// NewToolsHandler returns a handler streaming the given tools.
func NewToolsHandler(tools []ToolInfo) *ToolsHandler {
	return &ToolsHandler{tools: tools}
}

// Register mounts GET /tools/stream on the given router group.
func (h *ToolsHandler) Register(r fiber.Router) {
	r.Get("/tools/stream", h.stream)
}

// stream writes one "tool" event per tool followed by a "done" event with the count
func (h *ToolsHandler) stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	tools := h.tools
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for i, t := range tools {
			data, err := json.Marshal(t)
			if err != nil {
				slog.Warn("can't encode tool", "tool", t.Name, "error", err)
				continue
			}
			if err := writeEvent(w, i+1, "tool", data); err != nil {
				slog.Debug("tool stream closed", "error", err)
				return
			}
		}
		if err := writeEvent(w, len(tools)+1, "done", fmt.Appendf(nil, `{"count":%d}`, len(tools))); err != nil {
			slog.Debug("tool stream closed", "error", err)
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, id int, event string, data []byte) error {
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
		return err // nolint:wrapcheck // write error is descriptive
	}
	return w.Flush() // nolint:wrapcheck // flush error is descriptive
}
