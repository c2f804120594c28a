package records

import "encoding/json"

// Kind discriminates the three record variants.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindCode      Kind = "code"
)

// Meta is the metadata shared by every record.
type Meta struct {
	Position  int      // 1-based emission order
	Hierarchy []string // Ancestor heading titles, outermost first
	Anchor    string   // Slug of the nearest enclosing heading; empty before the first heading
}

// Record is one emitted unit: *Heading, *Paragraph or *Code.
type Record interface {
	Kind() Kind
	Metadata() Meta
	Text() string

	record()
}

// Heading is an ATX or setext heading.
type Heading struct {
	Meta
	Level   int
	Content string
}

// Paragraph is a run of prose lines joined with single spaces.
type Paragraph struct {
	Meta
	Content string
}

// Code is a fenced or indented code block.
type Code struct {
	Meta
	Info    string // Fence info string, empty for indented blocks
	Content string
}

func (h *Heading) Kind() Kind     { return KindHeading }
func (h *Heading) Metadata() Meta { return h.Meta }
func (h *Heading) Text() string   { return h.Content }
func (*Heading) record()          {}

func (p *Paragraph) Kind() Kind     { return KindParagraph }
func (p *Paragraph) Metadata() Meta { return p.Meta }
func (p *Paragraph) Text() string   { return p.Content }
func (*Paragraph) record()          {}

func (c *Code) Kind() Kind     { return KindCode }
func (c *Code) Metadata() Meta { return c.Meta }
func (c *Code) Text() string   { return c.Content }
func (*Code) record()          {}

// wireRecord is the JSON shape consumed by search indexers.
type wireRecord struct {
	Kind      Kind     `json:"kind"`
	CodeInfo  *string  `json:"codeInfo,omitempty"`
	Position  int      `json:"position"`
	Hierarchy []string `json:"hierarchy"`
	Anchor    string   `json:"anchor,omitempty"`
	Content   string   `json:"content"`
}

func toWire(kind Kind, m Meta, content string) wireRecord {
	h := m.Hierarchy
	if h == nil {
		h = []string{}
	}
	return wireRecord{
		Kind:      kind,
		Position:  m.Position,
		Hierarchy: h,
		Anchor:    m.Anchor,
		Content:   content,
	}
}

func (h *Heading) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(KindHeading, h.Meta, h.Content))
}

func (p *Paragraph) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(KindParagraph, p.Meta, p.Content))
}

func (c *Code) MarshalJSON() ([]byte, error) {
	w := toWire(KindCode, c.Meta, c.Content)
	info := c.Info
	w.CodeInfo = &info
	return json.Marshal(w)
}
