package source

import (
	"strings"
)

// mdBuilder writes blocks of markdown separated by blank lines. Text it is
// given is escaped so that the record extractor reads it back verbatim
// rather than as headings, fences or code spans.
type mdBuilder struct {
	b strings.Builder
}

func (m *mdBuilder) block(s string) {
	if m.b.Len() > 0 {
		m.b.WriteString("\n")
	}
	m.b.WriteString(s)
	m.b.WriteString("\n")
}

func (m *mdBuilder) heading(level int, title string) {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return
	}
	title = escapeInline(title)
	if strings.HasSuffix(title, "#") {
		title = title[:len(title)-1] + `\#`
	}
	m.block(strings.Repeat("#", level) + " " + title)
}

// paragraph writes text as one paragraph; its non-blank lines are kept as
// soft breaks.
func (m *mdBuilder) paragraph(text string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, escapeLine(line))
	}
	if len(lines) == 0 {
		return
	}
	m.block(strings.Join(lines, "\n"))
}

// code writes body as a fenced block with a fence longer than any backtick
// run inside it.
func (m *mdBuilder) code(info, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
	body = strings.TrimRight(body, "\n")
	info = strings.ReplaceAll(strings.TrimSpace(info), "`", "")
	m.block(fence + info + "\n" + body + "\n" + fence)
}

func (m *mdBuilder) String() string {
	return m.b.String()
}

// escapeLine escapes inline markup and any leading marker that would start
// a heading, fence, setext underline or thematic break.
func escapeLine(line string) string {
	line = escapeInline(line)
	switch line[0] {
	case '#', '~', '=', '-', '*', '_':
		return `\` + line
	}
	return line
}

// escapeInline protects backticks and backslash escapes.
func escapeInline(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '`':
			b.WriteString("\\`")
		case c == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]):
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
