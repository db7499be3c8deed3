package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

const maxRelated = 5

// Docs returns documentation for a named component. Hand-written docs from the store
// take precedence over generated props and styling notes.
func (e *Engine) Docs(ctx context.Context, req DocsRequest) (*Documentation, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, required("component_name")
	}

	cat, err := e.Catalog()
	if err != nil {
		return nil, err
	}
	c, ok := cat.FindByName(name)
	if !ok {
		return nil, &NotFoundError{Name: name, Suggestions: nearNames(cat, name)}
	}

	var doc *ComponentDoc
	if e.docs != nil {
		if doc, err = e.docs.Find(ctx, c.Name); err != nil {
			return nil, fmt.Errorf("failed to read docs for %s: %w", c.Name, err)
		}
	}

	res := &Documentation{
		Component: c,
		Import:    importStatement(e.packageName, c),
		Usage:     usageSnippet(c),
		Overview:  c.Description,
		Related:   related(cat, c),
	}
	if doc != nil && strings.TrimSpace(doc.Body) != "" {
		res.Overview = strings.TrimSpace(doc.Body)
	}

	if req.IncludeExamples {
		res.Examples = []CodeExample{codeExample(e.packageName, c)}
	}
	if req.IncludeProps {
		if doc != nil && len(doc.Props) > 0 {
			res.Props = doc.Props
		} else {
			res.Props = defaultProps(c)
		}
	}
	if req.IncludeStyling {
		if doc != nil && len(doc.Styling) > 0 {
			res.Styling = doc.Styling
		} else {
			res.Styling = defaultStyling(e.packageName, c)
		}
	}
	return res, nil
}

// related lists other components of the same category
func related(cat *catalog.Catalog, c catalog.Component) []string {
	var out []string
	for _, r := range cat.FilterByCategory(c.Category) {
		if r.Name == c.Name {
			continue
		}
		if len(out) == maxRelated {
			break
		}
		out = append(out, r.Name)
	}
	return out
}

func defaultProps(c catalog.Component) []Prop {
	switch c.Type {
	case catalog.KindHook, catalog.KindUtility:
		return nil
	case catalog.KindContext:
		return []Prop{{Name: "children", Type: "React.ReactNode", Required: true, Description: "Tree that receives the context"}}
	}

	props := []Prop{{Name: "className", Type: "string", Description: "Extra CSS classes for the root element"}}
	switch {
	case isTable(c):
		props = append(props,
			Prop{Name: "data", Type: "Array<Record<string, unknown>>", Required: true, Description: "Rows to display"},
			Prop{Name: "columns", Type: "Array<{ key: string; label: string }>", Required: true, Description: "Column definitions"})
	case isChart(c):
		props = append(props,
			Prop{Name: "data", Type: "Array<Record<string, number | string>>", Required: true, Description: "Series points"},
			Prop{Name: "xKey", Type: "string", Required: true, Description: "Field used for the x axis"},
			Prop{Name: "yKey", Type: "string", Required: true, Description: "Field used for the y axis"})
	case c.Category == catalog.CategoryForms:
		props = append(props,
			Prop{Name: "name", Type: "string", Required: true, Description: "Field name submitted with the form"},
			Prop{Name: "label", Type: "string", Description: "Visible label"},
			Prop{Name: "onChange", Type: "(e: React.ChangeEvent) => void", Description: "Change handler"},
			Prop{Name: "disabled", Type: "boolean", Default: "false"})
	}
	return props
}

func defaultStyling(pkg string, c catalog.Component) []string {
	return []string{
		fmt.Sprintf("Import the library styles once: import \"%s/dist/index.css\";", pkg),
		fmt.Sprintf("Root element uses the ihub-%s class", kebab(c.Name)),
		"Colors follow the --ihub-primary and --ihub-surface CSS variables set by ThemeProvider",
	}
}

// kebab converts PascalCase or camelCase to kebab-case
func kebab(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
