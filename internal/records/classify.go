package records

import (
	"strings"

	"github.com/yuin/goldmark/util"
)

const (
	maxHeadingLevel = 6
	codeIndent      = 4 // columns that make a line indented code
	maxBlockIndent  = 3 // deepest indent still allowed for headings and fences
)

type segmentKind int

const (
	segBlank segmentKind = iota
	segProse
	segHeading
	segSetext
	segCode
	segBreak
)

// segment is one classified unit of the document.
type segment struct {
	kind    segmentKind
	line    int // 1-based line the segment starts on
	level   int
	text    string // prose line or raw heading title
	info    string
	content string
}

// classifier walks a document once, front to back, handing out segments.
type classifier struct {
	lines       []string
	next        int
	inParagraph bool
}

func newClassifier(doc string) *classifier {
	return &classifier{lines: splitLines(doc)}
}

// splitLines normalizes CRLF and CR endings and drops the empty element a
// trailing newline would leave behind.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")
	lines := strings.Split(doc, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Next returns the following segment, or false once the document is exhausted.
func (c *classifier) Next() (segment, bool) {
	if c.next >= len(c.lines) {
		return segment{}, false
	}
	start := c.next
	line := c.lines[start]
	lineNo := start + 1
	wasParagraph := c.inParagraph
	c.inParagraph = false

	if isBlank(line) {
		c.next++
		return segment{kind: segBlank, line: lineNo}, true
	}

	width, _ := indentOf(line)
	if width >= codeIndent && !wasParagraph {
		return c.indentedCode(start), true
	}

	if level, title, ok := parseATX(line); ok {
		c.next++
		return segment{kind: segHeading, line: lineNo, level: level, text: title}, true
	}

	if f, info, ok := parseFenceOpen(line); ok {
		return c.fencedCode(start, f, info), true
	}

	if wasParagraph {
		if level := setextLevel(line); level > 0 {
			c.next++
			return segment{kind: segSetext, line: lineNo, level: level}, true
		}
	}

	if isThematicBreak(line) {
		c.next++
		return segment{kind: segBreak, line: lineNo}, true
	}

	c.next++
	c.inParagraph = true
	return segment{kind: segProse, line: lineNo, text: strings.Trim(line, " \t")}, true
}

// indentedCode consumes an indented block starting at start. Interior blank
// lines belong to the block; trailing ones are left for the caller.
func (c *classifier) indentedCode(start int) segment {
	var body []string
	end := start
	for i := start; i < len(c.lines); i++ {
		line := c.lines[i]
		if !isBlank(line) {
			if width, _ := indentOf(line); width < codeIndent {
				break
			}
			end = i + 1
		}
		body = append(body, stripColumns(line, codeIndent))
	}
	body = body[:end-start]
	c.next = end
	return segment{
		kind:    segCode,
		line:    start + 1,
		content: strings.Join(body, "\n") + "\n",
	}
}

// fencedCode consumes a fenced block whose opening line is at start. An
// unterminated fence runs to the end of the document.
func (c *classifier) fencedCode(start int, f fence, info string) segment {
	var body []string
	i := start + 1
	closed := false
	for ; i < len(c.lines); i++ {
		if f.closedBy(c.lines[i]) {
			closed = true
			break
		}
		body = append(body, stripColumns(c.lines[i], f.indent))
	}
	c.next = i
	if closed {
		c.next++
	}

	content := ""
	if len(body) > 0 {
		content = strings.Join(body, "\n") + "\n"
	}
	return segment{kind: segCode, line: start + 1, info: info, content: content}
}

type fence struct {
	char   byte
	length int
	indent int
}

func parseFenceOpen(line string) (fence, string, bool) {
	width, pos := indentOf(line)
	if width > maxBlockIndent {
		return fence{}, "", false
	}
	rest := line[pos:]
	if rest == "" || (rest[0] != '`' && rest[0] != '~') {
		return fence{}, "", false
	}
	char := rest[0]
	n := runLength(rest, char)
	if n < 3 {
		return fence{}, "", false
	}
	info := strings.TrimSpace(rest[n:])
	if char == '`' && strings.IndexByte(info, '`') >= 0 {
		return fence{}, "", false
	}
	return fence{char: char, length: n, indent: width}, info, true
}

// closedBy reports whether line is a closing fence: same character, at least
// as long as the opener, nothing but whitespace after it.
func (f fence) closedBy(line string) bool {
	width, pos := indentOf(line)
	if width > maxBlockIndent {
		return false
	}
	rest := line[pos:]
	n := runLength(rest, f.char)
	return n >= f.length && strings.Trim(rest[n:], " \t") == ""
}

func parseATX(line string) (int, string, bool) {
	width, pos := indentOf(line)
	if width > maxBlockIndent {
		return 0, "", false
	}
	rest := line[pos:]
	level := runLength(rest, '#')
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	rest = rest[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}

	title := strings.Trim(rest, " \t")
	end := len(title)
	for end > 0 && title[end-1] == '#' {
		end--
	}
	switch {
	case end == 0:
		title = ""
	case end < len(title) && (title[end-1] == ' ' || title[end-1] == '\t'):
		title = strings.TrimRight(title[:end], " \t")
	}
	return level, title, true
}

// setextLevel returns 1 for a run of '=', 2 for a run of '-', 0 otherwise.
func setextLevel(line string) int {
	width, pos := indentOf(line)
	if width > maxBlockIndent {
		return 0
	}
	rest := strings.TrimRight(line[pos:], " \t")
	if rest == "" || runLength(rest, rest[0]) != len(rest) {
		return 0
	}
	switch rest[0] {
	case '=':
		return 1
	case '-':
		return 2
	}
	return 0
}

func isThematicBreak(line string) bool {
	width, pos := indentOf(line)
	if width > maxBlockIndent {
		return false
	}
	var mark byte
	count := 0
	for i := pos; i < len(line); i++ {
		switch b := line[i]; b {
		case ' ', '\t':
		case '-', '*', '_':
			if mark != 0 && b != mark {
				return false
			}
			mark = b
			count++
		default:
			return false
		}
	}
	return count >= 3
}

func isBlank(line string) bool {
	return util.IsBlank([]byte(line))
}

// indentOf returns the column width of the leading whitespace (tabs advance
// to the next multiple of 4) and the byte offset of the first other byte.
func indentOf(line string) (width, pos int) {
	return util.IndentWidth([]byte(line), 0)
}

// stripColumns removes up to n columns of leading whitespace. A tab that
// straddles the boundary leaves its remaining columns as spaces.
func stripColumns(line string, n int) string {
	col := 0
	for i := 0; i < len(line); i++ {
		if col >= n {
			return line[i:]
		}
		switch line[i] {
		case ' ':
			col++
		case '\t':
			w := util.TabWidth(col)
			if col+w > n {
				return strings.Repeat(" ", col+w-n) + line[i+1:]
			}
			col += w
		default:
			return line[i:]
		}
	}
	return ""
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
