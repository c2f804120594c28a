package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
)

// frontMatter holds the fields read from a markdown file's front matter.
type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// MarkdownConverter passes markdown through, splitting off YAML, TOML or
// JSON front matter.
type MarkdownConverter struct{}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Title: baseTitle(filename), Markdown: string(src)}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		// Malformed front matter: keep the whole file as the body.
		return doc, nil
	}
	doc.Markdown = string(body)
	if t := strings.TrimSpace(meta.Title); t != "" {
		doc.Title = t
	}
	return doc, nil
}
