package docs

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

//go:embed assets/styles.css
var stylesheet []byte

// ErrLocked is returned when another generation holds the output lock
var ErrLocked = errors.New("docs generation already running")

const lockFile = ".generate.lock"

// Stylesheet returns the CSS shipped with the offline docs
func Stylesheet() []byte {
	return stylesheet
}

// GeneratorParams configures a Generator
type GeneratorParams struct {
	Service engine.Service
	OutDir  string
	Package string // npm package named in the index, defaults to engine.DefaultPackageName
}

// Generator writes the offline documentation package
type Generator struct {
	svc     engine.Service
	outDir  string
	pkgName string
}

// GenerateResult summarizes a generation run
type GenerateResult struct {
	OutDir     string   `json:"out_dir"`
	Components int      `json:"components"`
	Files      []string `json:"files"`
}

// NewGenerator creates a generator
func NewGenerator(params GeneratorParams) *Generator {
	g := &Generator{svc: params.Service, outDir: params.OutDir, pkgName: params.Package}
	if g.pkgName == "" {
		g.pkgName = engine.DefaultPackageName
	}
	return g
}

// Generate writes README.md, catalog.json, styles.css, one page per category and one doc per
// component under the output dir. Component docs carry frontmatter readable by Store.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	if g.outDir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(g.outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", g.outDir, err)
	}

	lock := flock.New(filepath.Join(g.outDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", g.outDir, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("failed to release docs lock", "error", err)
		}
		_ = os.Remove(lock.Path())
	}()

	list, err := g.svc.Components(ctx, engine.ListRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}

	res := &GenerateResult{OutDir: g.outDir, Components: list.Total}
	write := func(rel string, data []byte) error {
		path := filepath.Join(g.outDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("failed to create dir for %s: %w", rel, err)
		}
		// #nosec G306 - generated docs are meant to be readable
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
		res.Files = append(res.Files, rel)
		return nil
	}

	catalogJSON, err := json.MarshalIndent(list.Components, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := write("catalog.json", catalogJSON); err != nil {
		return nil, err
	}
	if err := write("styles.css", stylesheet); err != nil {
		return nil, err
	}

	byCategory := make(map[catalog.Category][]catalog.Component)
	for _, c := range list.Components {
		if err := ctx.Err(); err != nil {
			return nil, err // nolint:wrapcheck // context errors should be returned as-is
		}
		doc, err := g.svc.Docs(ctx, engine.DocsRequest{Name: c.Name, IncludeExamples: true, IncludeProps: true, IncludeStyling: true})
		if err != nil {
			return nil, fmt.Errorf("failed to build docs for %s: %w", c.Name, err)
		}
		page, err := componentPage(doc)
		if err != nil {
			return nil, err
		}
		if err := write(ComponentDocPath(c), page); err != nil {
			return nil, err
		}
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	for _, cat := range catalog.Categories {
		comps := byCategory[cat]
		if len(comps) == 0 {
			continue
		}
		if err := write("categories/"+strings.ToLower(string(cat))+".md", categoryPage(cat, comps)); err != nil {
			return nil, err
		}
	}

	if err := write("README.md", g.indexPage(list.Components, byCategory)); err != nil {
		return nil, err
	}
	slog.Info("docs generated", "dir", g.outDir, "components", res.Components, "files", len(res.Files))
	return res, nil
}

// ComponentDocPath is the slash separated path of a component doc in the generated package
func ComponentDocPath(c catalog.Component) string {
	return "components/" + strings.ToLower(string(c.Category)) + "/" + c.Name + ".md"
}

func componentPage(doc *engine.Documentation) ([]byte, error) {
	c := doc.Component
	fm := Frontmatter{
		Component:   c.Name,
		Description: c.Description,
		Category:    string(c.Category),
		Type:        string(c.Type),
		Tags:        c.Tags,
		Props:       doc.Props,
		Styling:     doc.Styling,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", c.Name, doc.Overview)
	fmt.Fprintf(&b, "## Import\n\n```jsx\n%s\n```\n\n", doc.Import)
	fmt.Fprintf(&b, "## Usage\n\n```jsx\n%s\n```\n", doc.Usage)

	if len(doc.Props) > 0 {
		b.WriteString("\n## Props\n\n| Name | Type | Required | Default | Description |\n|---|---|---|---|---|\n")
		for _, p := range doc.Props {
			required := ""
			if p.Required {
				required = "yes"
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %s |\n", p.Name, strings.ReplaceAll(p.Type, "|", "\\|"), required, p.Default, p.Description)
		}
	}
	for _, ex := range doc.Examples {
		fmt.Fprintf(&b, "\n## %s\n\n```jsx\n%s```\n", ex.Title, ex.Code)
	}
	if len(doc.Styling) > 0 {
		b.WriteString("\n## Styling\n\n")
		for _, s := range doc.Styling {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	if len(doc.Related) > 0 {
		b.WriteString("\n## Related\n\n")
		for _, r := range doc.Related {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	return RenderFrontmatter(fm, []byte(b.String()))
}

func categoryPage(cat catalog.Category, comps []catalog.Component) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cat)
	for _, c := range comps {
		fmt.Fprintf(&b, "- [%s](../%s) (%s): %s\n", c.Name, ComponentDocPath(c), c.Type, c.Description)
	}
	return []byte(b.String())
}

func (g *Generator) indexPage(all []catalog.Component, byCategory map[catalog.Category][]catalog.Component) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.pkgName)
	fmt.Fprintf(&b, "Offline documentation for %d components.\n\n", len(all))
	fmt.Fprintf(&b, "```bash\nnpm install %s\n```\n\n", g.pkgName)
	b.WriteString("## Categories\n\n")
	for _, cat := range catalog.Categories {
		if n := len(byCategory[cat]); n > 0 {
			fmt.Fprintf(&b, "- [%s](categories/%s.md) (%d)\n", cat, strings.ToLower(string(cat)), n)
		}
	}
	b.WriteString("\nThe full catalog is in [catalog.json](catalog.json), styles in [styles.css](styles.css).\n")
	return []byte(b.String())
}
