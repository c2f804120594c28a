package records

// headingState tracks the open heading at each level. Opening a heading at
// level L closes everything at L and deeper.
type headingState struct {
	titles [maxHeadingLevel + 1]string
	open   [maxHeadingLevel + 1]bool
}

// push opens title at level and returns the ancestor chain the new heading
// sits under, which excludes the heading itself.
func (s *headingState) push(level int, title string) []string {
	for l := level; l <= maxHeadingLevel; l++ {
		s.titles[l] = ""
		s.open[l] = false
	}
	ancestors := s.chain()
	s.titles[level] = title
	s.open[level] = true
	return ancestors
}

// chain returns a fresh copy of the open titles, shallowest first.
func (s *headingState) chain() []string {
	out := make([]string, 0, maxHeadingLevel)
	for l := 1; l <= maxHeadingLevel; l++ {
		if s.open[l] {
			out = append(out, s.titles[l])
		}
	}
	return out
}
