package source

import (
	"bufio"
	"io"
	"strings"
)

// TextConverter handles plain text files. Blank lines separate paragraphs.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var md mdBuilder
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				md.paragraph(current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		md.paragraph(current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Document{Title: baseTitle(filename), Markdown: md.String()}, nil
}
