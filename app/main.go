package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/instincthub/ui-catalog-mcp/app/api"
	"github.com/instincthub/ui-catalog-mcp/app/catalog"
	"github.com/instincthub/ui-catalog-mcp/app/docs"
	"github.com/instincthub/ui-catalog-mcp/app/engine"
	"github.com/instincthub/ui-catalog-mcp/app/remote"
	"github.com/instincthub/ui-catalog-mcp/app/server"
)

var revision = "unknown"

const serverName = "instincthub-ui"

// Options defines command line options
type Options struct {
	Catalog     string        `long:"catalog" env:"CATALOG_FILE" description:"catalog JSON file, the bundled catalog is used when empty"`
	Watch       bool          `long:"watch" env:"WATCH" description:"reload the catalog file when it changes"`
	DocsDir     string        `long:"docs-dir" env:"DOCS_DIR" description:"directory with hand-written component docs (markdown with frontmatter)"`
	Package     string        `long:"package" env:"PACKAGE_NAME" default:"@instincthub/react-ui" description:"npm package used in import statements"`
	CacheTTL    time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"10m" description:"cache TTL for results and the docs file list, 0 disables result caching"`
	MaxFileSize int64         `long:"max-file-size" env:"MAX_FILE_SIZE" default:"1048576" description:"maximum doc file size in bytes"`
	Debug       bool          `long:"dbg" env:"DEBUG" description:"enable debug logging"`

	MCP  MCPCommand  `command:"mcp" description:"serve MCP tools over stdio or streamable HTTP (default)"`
	API  APICommand  `command:"api" description:"serve the HTTP JSON API"`
	Docs DocsCommand `command:"docs" description:"write the offline documentation package"`
}

// MCPCommand defines options of the mcp command
type MCPCommand struct {
	Listen        string        `long:"listen" env:"MCP_LISTEN" description:"serve streamable HTTP on this address instead of stdio"`
	Remote        string        `long:"remote" env:"REMOTE_URL" description:"answer tool calls from a remote catalog API instead of the local catalog"`
	RemoteTimeout time.Duration `long:"remote-timeout" env:"REMOTE_TIMEOUT" default:"10s" description:"remote API request timeout"`
}

// APICommand defines options of the api command
type APICommand struct {
	Listen       string        `long:"listen" env:"API_LISTEN" default:":8080" description:"HTTP listen address"`
	AccessLog    bool          `long:"access-log" env:"ACCESS_LOG" description:"log every request to stderr"`
	ReadTimeout  time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"10s" description:"request read timeout"`
	WriteTimeout time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" default:"30s" description:"response write timeout"`
}

// DocsCommand defines options of the docs command
type DocsCommand struct {
	Out string `short:"o" long:"out" env:"DOCS_OUT" default:"ui-docs" description:"output directory"`
}

func main() {
	// values from .env never override the real environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	var opts Options
	p := flags.NewParser(&opts, flags.Default)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to parse flags: %v\n", err)
		os.Exit(1)
	}
	command := "mcp"
	if p.Active != nil {
		command = p.Active.Name
	}

	setupLog(os.Stderr, opts.Debug)
	slog.Info("starting instincthub ui catalog", "command", command, "version", revision)

	// use embedded function to properly handle defer before os.Exit
	os.Exit(func() int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		if err := run(ctx, command, opts); err != nil {
			slog.Error("fatal error", "error", err)
			return 1
		}
		return 0
	}())
}

// setupLog installs a text handler, debug level when dbg is set
func setupLog(w io.Writer, dbg bool) {
	level := slog.LevelInfo
	if dbg {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func run(ctx context.Context, command string, opts Options) error {
	switch command {
	case "mcp":
		if opts.MCP.Remote != "" {
			slog.Info("proxying tool calls", "remote", opts.MCP.Remote)
			return runMCP(ctx, opts, remote.New(opts.MCP.Remote, opts.MCP.RemoteTimeout))
		}
		eng, closeFn, err := makeEngine(ctx, opts, true)
		if err != nil {
			return err
		}
		defer closeFn()
		return runMCP(ctx, opts, eng)

	case "api":
		eng, closeFn, err := makeEngine(ctx, opts, true)
		if err != nil {
			return err
		}
		defer closeFn()
		return runAPI(ctx, opts, eng)

	case "docs":
		eng, closeFn, err := makeEngine(ctx, opts, false)
		if err != nil {
			return err
		}
		defer closeFn()
		return runDocs(ctx, opts, eng)
	}
	return fmt.Errorf("unknown command %q", command)
}

func runMCP(ctx context.Context, opts Options, svc engine.Service) error {
	srv, err := server.New(server.Config{ServerName: serverName, Version: revision, Listen: opts.MCP.Listen}, svc)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func runAPI(ctx context.Context, opts Options, svc engine.Service) error {
	params := api.Params{
		Service:      svc,
		Tools:        toolInfos(),
		Version:      revision,
		ReadTimeout:  opts.API.ReadTimeout,
		WriteTimeout: opts.API.WriteTimeout,
	}
	if opts.API.AccessLog {
		params.AccessLog = os.Stderr
	}
	if err := api.Run(ctx, api.New(params), opts.API.Listen); err != nil {
		return fmt.Errorf("api server error: %w", err)
	}
	slog.Info("api server stopped")
	return nil
}

func runDocs(ctx context.Context, opts Options, svc engine.Service) error {
	out, err := expandTilde(opts.Docs.Out)
	if err != nil {
		return err
	}
	res, err := docs.NewGenerator(docs.GeneratorParams{Service: svc, OutDir: out, Package: opts.Package}).Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate docs: %w", err)
	}
	fmt.Printf("wrote %d files for %d components to %s\n", len(res.Files), res.Components, res.OutDir)
	return nil
}

// makeEngine wires the catalog source and the doc store into an engine. Long running
// commands get a cached, watched doc store; the returned func releases it.
func makeEngine(ctx context.Context, opts Options, longRunning bool) (*engine.Engine, func(), error) {
	var provider catalog.Provider
	if opts.Catalog == "" {
		cat, err := catalog.Bundled()
		if err != nil {
			return nil, nil, err // nolint:wrapcheck // LoadError is descriptive
		}
		provider = cat
	} else {
		path, err := expandTilde(opts.Catalog)
		if err != nil {
			return nil, nil, err
		}
		loader := catalog.NewLoader(path)
		// fail fast on a broken catalog instead of on the first request
		cat, err := loader.Catalog()
		if err != nil {
			return nil, nil, err // nolint:wrapcheck // LoadError is descriptive
		}
		slog.Info("catalog loaded", "path", path, "components", cat.Len())
		if opts.Watch && longRunning {
			if err := loader.Watch(ctx); err != nil {
				slog.Warn("catalog watcher disabled", "error", err)
			}
		}
		provider = loader
	}

	params := engine.Params{Catalog: provider, PackageName: opts.Package}
	if longRunning {
		params.CacheTTL = opts.CacheTTL
	}
	closeFn := func() {}

	if opts.DocsDir != "" {
		dir, err := expandTilde(opts.DocsDir)
		if err != nil {
			return nil, nil, err
		}
		store := docs.NewStore(docs.Params{Dir: dir, MaxFileSize: opts.MaxFileSize})
		if longRunning {
			cached := docs.NewCachedStore(store, opts.CacheTTL, 0)
			closeFn = func() {
				if err := cached.Close(); err != nil {
					slog.Warn("failed to close docs store", "error", err)
				}
			}
			params.Docs = cached
		} else {
			params.Docs = store
		}
		slog.Info("component docs enabled", "dir", dir)
	}

	return engine.New(params), closeFn, nil
}

// toolInfos lists the MCP tools for the api tool stream
func toolInfos() []api.ToolInfo {
	tools := server.Tools()
	res := make([]api.ToolInfo, 0, len(tools))
	for _, t := range tools {
		res = append(res, api.ToolInfo{Name: t.Name, Description: t.Description})
	}
	return res
}

// expandTilde expands ~ prefix in path to user home directory
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}
