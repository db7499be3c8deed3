package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/instincthub/ui-catalog-mcp/app/catalog"
)

// supported frameworks for generated code
const (
	FrameworkNextJS = "nextjs"
	FrameworkReact  = "react"
	FrameworkVite   = "vite"
)

var frameworks = []string{FrameworkNextJS, FrameworkReact, FrameworkVite}

func parseFramework(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "next", "next.js", FrameworkNextJS:
		return FrameworkNextJS, true
	case "cra", "create-react-app", FrameworkReact:
		return FrameworkReact, true
	case FrameworkVite:
		return FrameworkVite, true
	}
	return "", false
}

func importStatement(pkg string, c catalog.Component) string {
	return fmt.Sprintf("import { %s } from %q;", c.Name, pkg)
}

func isTable(c catalog.Component) bool { return strings.Contains(c.Name, "Table") }
func isChart(c catalog.Component) bool { return strings.Contains(c.Name, "Chart") }
func isButton(c catalog.Component) bool { return strings.Contains(c.Name, "Button") }

// usageSnippet is the minimal JSX or call for a component
func usageSnippet(c catalog.Component) string {
	switch c.Type {
	case catalog.KindHook:
		return fmt.Sprintf("const result = %s();", c.Name)
	case catalog.KindContext:
		return fmt.Sprintf("<%s>\n  {children}\n</%s>", c.Name, c.Name)
	case catalog.KindUtility:
		return fmt.Sprintf("const value = %s.format(input);", c.Name)
	}
	switch {
	case isTable(c):
		return fmt.Sprintf("<%s data={data} columns={columns} />", c.Name)
	case isChart(c):
		return fmt.Sprintf("<%s data={series} xKey=\"label\" yKey=\"value\" />", c.Name)
	case c.Category == catalog.CategoryForms && isButton(c):
		return fmt.Sprintf("<%s type=\"submit\" />", c.Name)
	case c.Category == catalog.CategoryForms:
		return fmt.Sprintf("<%s name=%q onChange={handleChange} />", c.Name, fieldName(c.Name))
	default:
		return fmt.Sprintf("<%s />", c.Name)
	}
}

// snippetNeeds lists the identifiers a rendered component expects in scope
func snippetNeeds(c catalog.Component) []string {
	switch c.Type {
	case catalog.KindHook, catalog.KindContext:
		return nil
	case catalog.KindUtility:
		return []string{"input"}
	}
	switch {
	case isTable(c):
		return []string{"columns", "data"}
	case isChart(c):
		return []string{"series"}
	case c.Category == catalog.CategoryForms && !isButton(c):
		return []string{"handleChange"}
	}
	return nil
}

func fieldName(name string) string {
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// bodyDecls declares the identifiers snippets reference, in emit order. ts is set
// when the plain form does not type-check.
var bodyDecls = []struct {
	name   string
	js, ts []string
}{
	{name: "columns", js: []string{
		"const columns = [",
		"  { key: \"name\", label: \"Name\" },",
		"  { key: \"email\", label: \"Email\" },",
		"  { key: \"status\", label: \"Status\" },",
		"];",
	}},
	{name: "data", js: []string{
		"const data = [",
		"  { id: 1, name: \"Ada Obi\", email: \"ada@example.com\", status: \"active\" },",
		"  { id: 2, name: \"Tunde Bello\", email: \"tunde@example.com\", status: \"pending\" },",
		"];",
	}},
	{name: "series", js: []string{
		"const series = [",
		"  { label: \"Jan\", value: 120 },",
		"  { label: \"Feb\", value: 180 },",
		"  { label: \"Mar\", value: 150 },",
		"];",
	}},
	{name: "input", js: []string{"const input = new Date();"}},
	{
		name: "handleChange",
		js:   []string{"const handleChange = (e) => console.log(e.target.value);"},
		ts:   []string{"const handleChange = (e: React.ChangeEvent<HTMLInputElement>) => console.log(e.target.value);"},
	},
	{
		name: "handleSubmit",
		js:   []string{"const handleSubmit = (e) => {", "  e.preventDefault();", "};"},
		ts:   []string{"const handleSubmit = (e: React.FormEvent<HTMLFormElement>) => {", "  e.preventDefault();", "};"},
	},
}

// writeBody writes a function body rendering comps inside container (an opening tag
// without brackets, empty for none). Everything the JSX references is declared first,
// then hook and utility calls; context providers wrap the container.
func writeBody(b *strings.Builder, comps []catalog.Component, container string, ts bool) {
	needs := make(map[string]bool)
	if strings.Contains(container, "{handleSubmit}") {
		needs["handleSubmit"] = true
	}

	var providers []catalog.Component
	var calls, elements []string
	for _, c := range comps {
		for _, n := range snippetNeeds(c) {
			needs[n] = true
		}
		switch c.Type {
		case catalog.KindContext:
			providers = append(providers, c)
		case catalog.KindHook:
			calls = append(calls, fmt.Sprintf("const %s = %s();", hookVar(c.Name), c.Name))
		case catalog.KindUtility:
			v := fieldName(c.Name) + "Value"
			calls = append(calls, fmt.Sprintf("const %s = %s.format(input);", v, c.Name))
			elements = append(elements, fmt.Sprintf("<span>{%s}</span>", v))
		default:
			elements = append(elements, usageSnippet(c))
		}
	}

	declared := false
	for _, d := range bodyDecls {
		if !needs[d.name] {
			continue
		}
		lines := d.js
		if ts && d.ts != nil {
			lines = d.ts
		}
		for _, l := range lines {
			fmt.Fprintf(b, "  %s\n", l)
		}
		declared = true
	}
	if declared {
		b.WriteString("\n")
	}
	for _, c := range calls {
		fmt.Fprintf(b, "  %s\n", c)
	}
	if len(calls) > 0 {
		b.WriteString("\n")
	}

	if container == "" && len(providers) == 0 && len(elements) == 1 && !strings.Contains(elements[0], "\n") {
		fmt.Fprintf(b, "  return %s;\n", elements[0])
		return
	}

	var open, closing string
	switch {
	case container != "":
		open, closing = "<"+container+">", "</"+strings.Fields(container)[0]+">"
	case len(elements) != 1:
		open, closing = "<>", "</>"
	}

	level := 2
	b.WriteString("  return (\n")
	for _, p := range providers {
		fmt.Fprintf(b, "%s<%s>\n", strings.Repeat("  ", level), p.Name)
		level++
	}
	if open != "" {
		fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", level), open)
		level++
	}
	for _, el := range elements {
		pad := strings.Repeat("  ", level)
		fmt.Fprintf(b, "%s%s\n", pad, indent(el, pad))
	}
	if open != "" {
		level--
		fmt.Fprintf(b, "%s%s\n", strings.Repeat("  ", level), closing)
	}
	for i := len(providers) - 1; i >= 0; i-- {
		level--
		fmt.Fprintf(b, "%s</%s>\n", strings.Repeat("  ", level), providers[i].Name)
	}
	b.WriteString("  );\n")
}

// codeExample renders a complete usage example; the shape depends on kind and category
func codeExample(pkg string, c catalog.Component) CodeExample {
	var b strings.Builder
	b.WriteString("\"use client\";\n\n")
	b.WriteString("import React from \"react\";\n")
	b.WriteString(importStatement(pkg, c) + "\n\n")

	switch {
	case c.Type == catalog.KindHook:
		fmt.Fprintf(&b, "export default function %sExample() {\n", strings.TrimPrefix(c.Name, "use"))
		fmt.Fprintf(&b, "  const result = %s();\n\n", c.Name)
		b.WriteString("  return <pre>{JSON.stringify(result, null, 2)}</pre>;\n}\n")

	case c.Type == catalog.KindContext:
		b.WriteString("export default function RootLayout({ children }) {\n")
		fmt.Fprintf(&b, "  return <%s>{children}</%s>;\n}\n", c.Name, c.Name)

	case c.Type == catalog.KindUtility:
		fmt.Fprintf(&b, "export default function %sExample({ input }) {\n", c.Name)
		fmt.Fprintf(&b, "  const value = %s.format(input);\n", c.Name)
		b.WriteString("  return <span>{value}</span>;\n}\n")

	default:
		container := ""
		if c.Category == catalog.CategoryForms {
			container = "form onSubmit={handleSubmit}"
		}
		fmt.Fprintf(&b, "export default function %sExample() {\n", c.Name)
		writeBody(&b, []catalog.Component{c}, container, false)
		b.WriteString("}\n")
	}

	return CodeExample{Component: c.Name, Title: fmt.Sprintf("Using %s", c.Name), Code: b.String()}
}

// patternCode renders the skeleton of a known pattern with the given components
func patternCode(pkg, pattern string, comps []catalog.Component) string {
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		names = append(names, c.Name)
	}

	var b strings.Builder
	b.WriteString("\"use client\";\n\n")
	if len(names) > 0 {
		fmt.Fprintf(&b, "import { %s } from %q;\n\n", strings.Join(names, ", "), pkg)
	}

	container := fmt.Sprintf("section className=%q", strings.ToLower(pattern))
	switch pattern {
	case "Form":
		container = "form onSubmit={handleSubmit}"
	case "Navigation":
		container = "header"
	}

	fmt.Fprintf(&b, "export default function %sPage() {\n", strings.ReplaceAll(pattern, " ", ""))
	writeBody(&b, comps, container, false)
	b.WriteString("}\n")
	return b.String()
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// GenerateCode composes a page using the named components, or the top recommendations
// for the description when no names are given
func (e *Engine) GenerateCode(ctx context.Context, req GenerateRequest) (*GeneratedCode, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	if len(req.Components) == 0 && strings.TrimSpace(req.Description) == "" {
		return nil, &InvalidInputError{Field: "components", Message: "components or description is required"}
	}
	framework, ok := parseFramework(req.Framework)
	if !ok {
		return nil, &InvalidInputError{Field: "framework", Message: fmt.Sprintf("unsupported framework %q, use one of %s", req.Framework, strings.Join(frameworks, ", "))}
	}

	cat, err := e.Catalog()
	if err != nil {
		return nil, err
	}

	var comps []catalog.Component
	if len(req.Components) > 0 {
		for _, name := range req.Components {
			c, ok := cat.FindByName(name)
			if !ok {
				return nil, &NotFoundError{Name: name, Suggestions: nearNames(cat, name)}
			}
			comps = append(comps, c)
		}
	} else {
		rec, err := e.Recommend(ctx, RecommendRequest{Description: req.Description, Framework: framework})
		if err != nil {
			return nil, err
		}
		for i, p := range rec.Primary {
			if i == 4 {
				break
			}
			comps = append(comps, p.Component)
		}
	}

	out := &GeneratedCode{Framework: framework, Components: make([]string, 0, len(comps))}
	for _, c := range comps {
		out.Components = append(out.Components, c.Name)
	}
	out.Filename = pageFilename(framework, req.TypeScript)
	out.Code = composePage(e.packageName, framework, req.TypeScript, comps)
	return out, nil
}

// hookVar names the variable holding a hook result, useAuth becomes auth
func hookVar(name string) string {
	v := strings.TrimPrefix(name, "use")
	if v == "" {
		return "value"
	}
	return strings.ToLower(v[:1]) + v[1:]
}

func pageFilename(framework string, ts bool) string {
	ext := "jsx"
	if ts {
		ext = "tsx"
	}
	switch framework {
	case FrameworkNextJS:
		return "app/page." + ext
	default:
		return "src/App." + ext
	}
}

func composePage(pkg, framework string, ts bool, comps []catalog.Component) string {
	var b strings.Builder
	if framework == FrameworkNextJS {
		b.WriteString("\"use client\";\n\n")
	}
	b.WriteString("import React from \"react\";\n")

	names := make([]string, 0, len(comps))
	for _, c := range comps {
		names = append(names, c.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "import { %s } from %q;\n", strings.Join(names, ", "), pkg)
	}
	fmt.Fprintf(&b, "import \"%s/dist/index.css\";\n\n", pkg)

	fn := "App"
	if framework == FrameworkNextJS {
		fn = "Page"
	}
	if ts {
		fmt.Fprintf(&b, "export default function %s(): React.JSX.Element {\n", fn)
	} else {
		fmt.Fprintf(&b, "export default function %s() {\n", fn)
	}
	writeBody(&b, comps, "main", ts)
	b.WriteString("}\n")
	return b.String()
}
