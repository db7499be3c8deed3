package engine

import (
	"context"
	"fmt"
	"strings"
)

// integration topics
const (
	TopicInstallation = "installation"
	TopicSetup        = "setup"
	TopicStyling      = "styling"
	TopicTheming      = "theming"
)

var topics = []string{TopicInstallation, TopicSetup, TopicStyling, TopicTheming}

// IntegrationHelp returns setup steps for a framework. An empty topic returns all topics.
func (e *Engine) IntegrationHelp(ctx context.Context, req IntegrationRequest) (*IntegrationGuide, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	framework, ok := parseFramework(req.Framework)
	if !ok {
		return nil, &InvalidInputError{Field: "framework", Message: fmt.Sprintf("unsupported framework %q, use one of %s", req.Framework, strings.Join(frameworks, ", "))}
	}

	selected := topics
	topic := strings.ToLower(strings.TrimSpace(req.Topic))
	if topic != "" {
		found := false
		for _, t := range topics {
			if t == topic {
				found = true
				break
			}
		}
		if !found {
			return nil, &InvalidInputError{Field: "topic", Message: fmt.Sprintf("unknown topic %q, use one of %s", req.Topic, strings.Join(topics, ", "))}
		}
		selected = []string{topic}
	}

	guide := &IntegrationGuide{Framework: framework, Topic: topic, Steps: []IntegrationStep{}}
	if topic == "" {
		guide.Topic = "all"
	}
	for _, t := range selected {
		guide.Steps = append(guide.Steps, e.integrationSteps(framework, t)...)
	}
	guide.Notes = frameworkNotes(framework)
	return guide, nil
}

func (e *Engine) integrationSteps(framework, topic string) []IntegrationStep {
	pkg := e.packageName
	switch topic {
	case TopicInstallation:
		return []IntegrationStep{
			{Title: "Install the package", Details: "Add the library and its peer dependencies", Code: fmt.Sprintf("npm install %s react react-dom", pkg)},
		}
	case TopicSetup:
		switch framework {
		case FrameworkNextJS:
			return []IntegrationStep{{
				Title:   "Wrap the root layout",
				Details: "Providers are client components, mark the layout module with \"use client\" or wrap them in a client boundary",
				Code: fmt.Sprintf("import { SessionProvider, ThemeProvider } from %q;\n\n"+
					"export default function RootLayout({ children }) {\n"+
					"  return (\n    <html lang=\"en\">\n      <body>\n"+
					"        <SessionProvider>\n          <ThemeProvider>{children}</ThemeProvider>\n        </SessionProvider>\n"+
					"      </body>\n    </html>\n  );\n}\n", pkg),
			}}
		default:
			return []IntegrationStep{{
				Title:   "Wrap the application",
				Details: "Mount the providers around the root component in the entry module",
				Code: fmt.Sprintf("import { createRoot } from \"react-dom/client\";\n"+
					"import { ThemeProvider } from %q;\nimport App from \"./App\";\n\n"+
					"createRoot(document.getElementById(\"root\")).render(\n"+
					"  <ThemeProvider>\n    <App />\n  </ThemeProvider>\n);\n", pkg),
			}}
		}
	case TopicStyling:
		entry := "src/main.jsx"
		switch framework {
		case FrameworkNextJS:
			entry = "app/layout.jsx"
		case FrameworkReact:
			entry = "src/index.jsx"
		}
		return []IntegrationStep{
			{Title: "Import the stylesheet", Details: "Load the bundled CSS once in " + entry, Code: fmt.Sprintf("import \"%s/dist/index.css\";", pkg)},
			{Title: "Override styles", Details: "Components expose ihub- prefixed classes and accept className for local overrides"},
		}
	case TopicTheming:
		return []IntegrationStep{
			{Title: "Add ThemeProvider", Details: "ThemeProvider sets the CSS variables used by every component"},
			{
				Title:   "Switch themes",
				Details: "Use the useTheme hook or drop in ThemeToggle",
				Code: fmt.Sprintf("import { useTheme, ThemeToggle } from %q;\n\n"+
					"function Header() {\n  const { theme } = useTheme();\n  return <ThemeToggle aria-label={theme} />;\n}\n", pkg),
			},
		}
	}
	return nil
}

func frameworkNotes(framework string) []string {
	switch framework {
	case FrameworkNextJS:
		return []string{
			"Works with the App Router, components that use state are client components",
			"Set transpilePackages in next.config.js if your build fails on untranspiled ESM",
		}
	case FrameworkVite:
		return []string{"No extra configuration is required, CSS imports are handled by Vite"}
	default:
		return []string{"Requires React 18 or newer"}
	}
}
