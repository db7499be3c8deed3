package docs

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

// Frontmatter is the YAML header of a component doc
type Frontmatter struct {
	Component   string        `yaml:"component,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Category    string        `yaml:"category,omitempty"`
	Type        string        `yaml:"type,omitempty"`
	Tags        []string      `yaml:"tags,omitempty"`
	Props       []engine.Prop `yaml:"props,omitempty"`
	Styling     []string      `yaml:"styling,omitempty"`
}

// rawFrontmatter accepts tags and styling either as a list or a comma-separated string
type rawFrontmatter struct {
	Component   string        `yaml:"component"`
	Description string        `yaml:"description"`
	Category    string        `yaml:"category"`
	Type        string        `yaml:"type"`
	Tags        interface{}   `yaml:"tags"`
	Props       []engine.Prop `yaml:"props"`
	Styling     interface{}   `yaml:"styling"`
}

// ParseFrontmatter splits markdown into frontmatter and body.
// Without a well-formed header it returns empty metadata and the original content.
func ParseFrontmatter(content []byte) (frontmatter Frontmatter, body []byte) {
	var fm Frontmatter

	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return fm, content
	}

	lineEnding := "\n"
	if bytes.HasPrefix(content, []byte("---\r\n")) {
		lineEnding = "\r\n"
	}

	startIdx := len("---") + len(lineEnding)
	remaining := content[startIdx:]

	// closing delimiter is either right away (empty header) or on its own line
	var endIdx int
	closingPattern := "---" + lineEnding
	if bytes.HasPrefix(remaining, []byte(closingPattern)) {
		endIdx = 0
	} else {
		endIdx = bytes.Index(remaining, []byte(lineEnding+closingPattern))
		if endIdx == -1 {
			return fm, content
		}
		endIdx += len(lineEnding)
	}

	return decodeHeader(remaining[:endIdx], content, content[startIdx+endIdx+len(closingPattern):])
}

func decodeHeader(header, original, body []byte) (Frontmatter, []byte) {
	var fm Frontmatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, body
	}

	var raw rawFrontmatter
	if err := yaml.Unmarshal(header, &raw); err != nil {
		return Frontmatter{}, original
	}
	fm.Component = strings.TrimSpace(raw.Component)
	fm.Description = raw.Description
	fm.Category = raw.Category
	fm.Type = raw.Type
	fm.Tags = parseList(raw.Tags)
	fm.Props = raw.Props
	fm.Styling = parseList(raw.Styling)
	return fm, body
}

// RenderFrontmatter writes the header followed by body
func RenderFrontmatter(fm Frontmatter, body []byte) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if !bytes.Equal(header, []byte("{}\n")) {
		buf.Write(header)
	}
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// parseList converts a YAML list or comma-separated string to []string
func parseList(v interface{}) []string {
	if v == nil {
		return nil
	}

	switch v := v.(type) {
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result

	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				result = append(result, strings.TrimSpace(str))
			}
		}
		return result

	default:
		return nil
	}
}
