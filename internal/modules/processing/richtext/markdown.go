package richtext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
)

// FromMarkdown renders markdown to sanitized HTML.
func FromMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(strings.TrimSpace(src)), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return Sanitize(buf.String()), nil
}

// FrontMatter is the YAML header of an imported markdown file.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Slug     string   `yaml:"slug"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
	Excerpt  string   `yaml:"excerpt"`
}

var ErrNoTitle = errors.New("markdown has no title")

// ParseMarkdownFile splits an optional "---" YAML header from the body. A
// missing title falls back to the first "# " heading, which is then removed
// from the body.
func ParseMarkdownFile(text string) (FrontMatter, string, error) {
	var fm FrontMatter
	body := strings.TrimLeft(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	if strings.HasPrefix(body, "---\n") {
		rest := body[len("---\n"):]
		end := strings.Index(rest, "\n---")
		if end < 0 {
			return fm, "", errors.New("unterminated front matter")
		}
		if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
			return fm, "", fmt.Errorf("front matter: %w", err)
		}
		body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	}

	body = strings.TrimSpace(body)
	if fm.Title == "" && strings.HasPrefix(body, "# ") {
		line, rest, _ := strings.Cut(body, "\n")
		fm.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		body = strings.TrimSpace(rest)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return fm, "", ErrNoTitle
	}
	return fm, body, nil
}
