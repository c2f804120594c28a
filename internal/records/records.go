// Package records turns a markdown document into the ordered headings,
// paragraphs and code blocks a search index is fed with.
package records

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 means the input is not decoded text.
	ErrInvalidUTF8 = errors.New("document is not valid UTF-8")
	// ErrInvariant means the engine broke one of its own guarantees.
	ErrInvariant = errors.New("record invariant violated")
)

// ParseError is the only error Extract returns.
type ParseError struct {
	Line int // 1-based, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse markdown: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse markdown: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func invariantError(line int, detail string) error {
	return &ParseError{Line: line, Err: fmt.Errorf("%w: %s", ErrInvariant, detail)}
}

// Extract converts markdown into its record sequence. Positions run 1..n in
// document order. Every call starts from empty heading, anchor and position
// state, so concurrent calls on different documents need no coordination.
// On error no records are returned.
func Extract(markdown string) ([]Record, error) {
	if !utf8.ValidString(markdown) {
		return nil, &ParseError{Line: invalidLine(markdown), Err: ErrInvalidUTF8}
	}

	a := newAssembler()
	c := newClassifier(markdown)
	for {
		seg, ok := c.Next()
		if !ok {
			break
		}
		if err := a.feed(seg); err != nil {
			return nil, err
		}
	}
	if err := a.flush(); err != nil {
		return nil, err
	}
	return a.records, nil
}

// invalidLine returns the 1-based line holding the first invalid byte.
func invalidLine(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return strings.Count(s[:i], "\n") + 1
			}
		}
	}
	return 0
}
