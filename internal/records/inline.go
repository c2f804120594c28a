package records

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// inlineParser understands paragraphs and code spans only. Emphasis, links
// and raw HTML have no parser registered and stay literal text.
var inlineParser = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 100)),
	parser.WithInlineParsers(util.Prioritized(parser.NewCodeSpanParser(), 100)),
)

type inlinePiece struct {
	raw  []byte
	code bool
	stop int // end offset in the source, for merging adjacent text
}

// inlineText flattens trimmed lines of inline markdown into record content.
// Literal runs and code span bodies are joined with single spaces, so
// "some `inline` code" becomes "some  inline  code".
func inlineText(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	src := []byte(strings.Join(lines, "\n"))
	doc := inlineParser.Parse(text.NewReader(src))

	var pieces []inlinePiece
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan:
			pieces = append(pieces, inlinePiece{raw: codeSpanBody(node, src), code: true})
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			seg := node.Segment
			if seg.Len() == 0 {
				break
			}
			// A backtick that opened no code span splits the run in two.
			if k := len(pieces) - 1; k >= 0 && !pieces[k].code && pieces[k].stop == seg.Start {
				pieces[k].raw = append(pieces[k].raw, seg.Value(src)...)
				pieces[k].stop = seg.Stop
				break
			}
			pieces = append(pieces, inlinePiece{
				raw:  append([]byte(nil), seg.Value(src)...),
				stop: seg.Stop,
			})
		}
		return ast.WalkContinue, nil
	})

	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p.code {
			out = append(out, strings.ReplaceAll(string(p.raw), "\n", " "))
			continue
		}
		out = append(out, string(util.UnescapePunctuations(p.raw)))
	}
	return strings.TrimSpace(strings.Join(out, " "))
}

func codeSpanBody(n *ast.CodeSpan, src []byte) []byte {
	var body []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			body = append(body, t.Segment.Value(src)...)
		case *ast.String:
			body = append(body, t.Value...)
		}
	}
	return body
}
