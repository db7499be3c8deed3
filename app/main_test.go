package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

var (
	testBinaryPath string
	buildOnce      sync.Once
	buildErr       error
)

// buildTestBinary builds the binary once for all integration tests
func buildTestBinary() (string, error) {
	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "ui-catalog-mcp-test-*")
		if err != nil {
			buildErr = err
			return
		}

		testBinaryPath = filepath.Join(tmpDir, "ui-catalog-mcp-test")
		buildCmd := exec.Command("go", "build", "-o", testBinaryPath, ".")
		buildErr = buildCmd.Run()
	})

	return testBinaryPath, buildErr
}

const testCatalog = `[
  {"name": "Button", "description": "Clickable button", "category": "UI"},
  {"name": "SubmitButton", "description": "Form submit button", "category": "Forms"},
  {"name": "InputText", "description": "Text input field", "category": "Forms"}
]`

func TestIntegration_Server(t *testing.T) {
	// skip if in short mode
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	catalogFile := filepath.Join(tmpDir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogFile, []byte(testCatalog), 0o600))
	docsDir := filepath.Join(tmpDir, "docs")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "InputText.md"),
		[]byte("---\nstyling: [ihub-input--compact]\n---\nA text field with inline validation.\n"), 0o600))

	binaryPath, err := buildTestBinary()
	require.NoError(t, err, "failed to build test binary")

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	cmd := exec.Command(binaryPath, "--catalog="+catalogFile, "--docs-dir="+docsDir, "mcp")
	cmd.Dir = tmpDir
	transport := &mcp.CommandTransport{Command: cmd}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := client.Connect(ctx, transport, nil)
	require.NoError(t, err, "failed to connect to server")
	defer session.Close()

	t.Run("search_components", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "search_components",
			Arguments: map[string]any{"query": "button"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Content)

		var res engine.SearchResult
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &res))
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, "Button", res.Results[0].Component.Name)
	})

	t.Run("get_component_docs", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "get_component_docs",
			Arguments: map[string]any{"component_name": "InputText"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.Content)

		content := result.Content[0].(*mcp.TextContent).Text
		assert.Contains(t, content, "inline validation", "should use the hand-written doc")
		assert.Contains(t, content, "ihub-input--compact")
	})

	t.Run("get_component_docs unknown", func(t *testing.T) {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "get_component_docs",
			Arguments: map[string]any{"component_name": "Inputtxt"},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "InputText")
	})
}

func TestExpandTilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde prefix", input: "~/.instincthub/docs", expected: filepath.Join(homeDir, ".instincthub/docs")},
		{name: "tilde only", input: "~/", expected: homeDir},
		{name: "no tilde", input: "/absolute/path", expected: "/absolute/path"},
		{name: "relative path", input: "relative/path", expected: "relative/path"},
		{name: "empty string", input: "", expected: ""},
		{name: "tilde not at start", input: "/path/~/file", expected: "/path/~/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandTilde(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSetupLog(t *testing.T) {
	defer setupLog(os.Stderr, false)

	var buf bytes.Buffer
	setupLog(&buf, false)
	slogDebugAndInfo()
	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")

	buf.Reset()
	setupLog(&buf, true)
	slogDebugAndInfo()
	assert.Contains(t, buf.String(), "debug line")
}

func TestMakeEngine(t *testing.T) {
	t.Run("bundled catalog", func(t *testing.T) {
		eng, closeFn, err := makeEngine(context.Background(), Options{Package: engine.DefaultPackageName}, false)
		require.NoError(t, err)
		defer closeFn()

		bundled, err := catalog.Bundled()
		require.NoError(t, err)
		list, err := eng.Components(context.Background(), engine.ListRequest{})
		require.NoError(t, err)
		assert.Equal(t, bundled.Len(), list.Total)
	})

	t.Run("catalog file and docs", func(t *testing.T) {
		tmpDir := t.TempDir()
		catalogFile := filepath.Join(tmpDir, "catalog.json")
		require.NoError(t, os.WriteFile(catalogFile, []byte(testCatalog), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Button.md"), []byte("Press it.\n"), 0o600))

		opts := Options{Catalog: catalogFile, DocsDir: tmpDir, Package: "@acme/ui", CacheTTL: time.Minute, MaxFileSize: 1024}
		eng, closeFn, err := makeEngine(context.Background(), opts, true)
		require.NoError(t, err)
		defer closeFn()

		assert.Equal(t, "@acme/ui", eng.PackageName())
		doc, err := eng.Docs(context.Background(), engine.DocsRequest{Name: "Button"})
		require.NoError(t, err)
		assert.Equal(t, "Press it.", doc.Overview)
		assert.Equal(t, `import { Button } from "@acme/ui";`, doc.Import)
	})

	t.Run("broken catalog", func(t *testing.T) {
		catalogFile := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(catalogFile, []byte("not json"), 0o600))

		_, _, err := makeEngine(context.Background(), Options{Catalog: catalogFile}, true)
		var loadErr *catalog.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, catalogFile, loadErr.Path)
	})
}

func TestRun(t *testing.T) {
	t.Run("unknown command", func(t *testing.T) {
		err := run(context.Background(), "serve", Options{})
		assert.EqualError(t, err, `unknown command "serve"`)
	})

	t.Run("docs command", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "package")
		opts := Options{Package: engine.DefaultPackageName, Docs: DocsCommand{Out: out}}

		// redirect stdout to keep the summary line out of test output
		oldStdout := os.Stdout
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		require.NoError(t, err)
		os.Stdout = devNull
		defer func() {
			devNull.Close()
			os.Stdout = oldStdout
		}()

		require.NoError(t, run(context.Background(), "docs", opts))

		data, err := os.ReadFile(filepath.Join(out, "catalog.json"))
		require.NoError(t, err)
		var comps []catalog.Component
		require.NoError(t, json.Unmarshal(data, &comps))
		bundled, err := catalog.Bundled()
		require.NoError(t, err)
		assert.Len(t, comps, bundled.Len())
		assert.FileExists(t, filepath.Join(out, "README.md"))
		assert.FileExists(t, filepath.Join(out, "styles.css"))
	})

	t.Run("mcp with invalid listen address", func(t *testing.T) {
		opts := Options{Package: engine.DefaultPackageName, MCP: MCPCommand{Listen: "no-port"}}
		err := run(context.Background(), "mcp", opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create server")
	})

	t.Run("mcp over http with cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := Options{Package: engine.DefaultPackageName, MCP: MCPCommand{Listen: "127.0.0.1:0"}}
		assert.NoError(t, run(ctx, "mcp", opts))
	})
}

func slogDebugAndInfo() {
	slog.Debug("debug line")
	slog.Info("info line")
}
