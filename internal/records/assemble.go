package records

import "fmt"

// assembler turns classified segments into records. It owns every piece of
// per-document state: the open headings, the issued anchors, the position
// counter and the pending paragraph lines.
type assembler struct {
	records  []Record
	position int
	headings headingState
	slugs    *slugger
	anchor   string

	para     []string
	paraLine int
}

func newAssembler() *assembler {
	return &assembler{
		records: make([]Record, 0),
		slugs:   newSlugger(),
	}
}

func (a *assembler) feed(seg segment) error {
	switch seg.kind {
	case segProse:
		if len(a.para) == 0 {
			a.paraLine = seg.line
		}
		a.para = append(a.para, seg.text)
		return nil
	case segBlank, segBreak:
		return a.flush()
	case segHeading:
		if err := a.flush(); err != nil {
			return err
		}
		return a.heading(seg.line, seg.level, inlineText([]string{seg.text}))
	case segSetext:
		if len(a.para) == 0 {
			return invariantError(seg.line, "setext underline without paragraph")
		}
		title := inlineText(a.para)
		line := a.paraLine
		a.para = nil
		return a.heading(line, seg.level, title)
	case segCode:
		if err := a.flush(); err != nil {
			return err
		}
		meta, err := a.next(seg.line, a.headings.chain())
		if err != nil {
			return err
		}
		a.records = append(a.records, &Code{Meta: meta, Info: seg.info, Content: seg.content})
		return nil
	default:
		return invariantError(seg.line, fmt.Sprintf("unknown segment kind %d", seg.kind))
	}
}

// flush emits the pending paragraph, if any.
func (a *assembler) flush() error {
	if len(a.para) == 0 {
		return nil
	}
	content := inlineText(a.para)
	line := a.paraLine
	a.para = nil
	if content == "" {
		return nil
	}
	meta, err := a.next(line, a.headings.chain())
	if err != nil {
		return err
	}
	a.records = append(a.records, &Paragraph{Meta: meta, Content: content})
	return nil
}

func (a *assembler) heading(line, level int, title string) error {
	if level < 1 || level > maxHeadingLevel {
		return invariantError(line, fmt.Sprintf("heading level %d", level))
	}
	ancestors := a.headings.push(level, title)
	a.anchor = a.slugs.anchor(title)
	meta, err := a.next(line, ancestors)
	if err != nil {
		return err
	}
	a.records = append(a.records, &Heading{Meta: meta, Level: level, Content: title})
	return nil
}

// next advances the position counter and stamps the metadata for the record
// about to be appended.
func (a *assembler) next(line int, hierarchy []string) (Meta, error) {
	a.position++
	if a.position != len(a.records)+1 {
		return Meta{}, invariantError(line, fmt.Sprintf("position %d after %d records", a.position, len(a.records)))
	}
	return Meta{Position: a.position, Hierarchy: hierarchy, Anchor: a.anchor}, nil
}
