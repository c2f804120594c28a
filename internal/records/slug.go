package records

import (
	"strconv"
	"strings"
	"unicode"
)

// emptySlug replaces a slug that normalizes to nothing, e.g. a title made
// only of punctuation.
const emptySlug = "section"

// slugger issues GitHub-style anchors that are unique within one document.
// The first heading with a given slug keeps it bare; later ones get -2, -3...
type slugger struct {
	issued map[string]struct{}
}

func newSlugger() *slugger {
	return &slugger{issued: make(map[string]struct{})}
}

func (s *slugger) anchor(title string) string {
	base := Slugify(title)
	if base == "" {
		base = emptySlug
	}
	slug := base
	for n := 2; s.taken(slug); n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.issued[slug] = struct{}{}
	return slug
}

func (s *slugger) taken(slug string) bool {
	_, ok := s.issued[slug]
	return ok
}

// Slugify lowercases title, drops everything but letters, marks, digits,
// underscores and hyphens, turns each whitespace rune into a hyphen and trims
// hyphens from both ends. Whitespace runs are not collapsed, so a double
// space left behind by removed punctuation becomes "--".
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
