package records

import "testing"

func TestInlineText(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"plain", []string{"just text"}, "just text"},
		{"code span", []string{"some `inline` code."}, "some  inline  code."},
		{"leading code span", []string{"`go test` runs tests"}, "go test  runs tests"},
		{"soft break", []string{"first line", "second line"}, "first line second line"},
		{"emphasis stays literal", []string{"a *b* c"}, "a *b* c"},
		{"link stays literal", []string{"see [docs](https://example.com)"}, "see [docs](https://example.com)"},
		{"escaped punctuation", []string{`not \*emphasis\*`}, "not *emphasis*"},
		{"unmatched backtick", []string{"a ` b"}, "a ` b"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inlineText(tt.lines); got != tt.want {
				t.Errorf("inlineText(%q) = %q, want %q", tt.lines, got, tt.want)
			}
		})
	}
}
