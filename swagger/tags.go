package swagger

import "strings"

// tagName returns the namespace of an endpoint: "Balloons:index" yields
// "Balloons". Endpoints without a namespace are their own tag.
func tagName(endpoint string) string {
	name, _, _ := strings.Cut(endpoint, ":")
	return name
}

// tagSet keeps the first-seen tag of every name, in first-seen order.
type tagSet struct {
	index map[string]int
	tags  []Tag
}

func newTagSet() *tagSet {
	return &tagSet{index: make(map[string]int)}
}

func (s *tagSet) add(tag Tag) {
	if _, ok := s.index[tag.Name]; ok {
		return
	}
	s.index[tag.Name] = len(s.tags)
	s.tags = append(s.tags, tag)
}

func (s *tagSet) list() []Tag {
	if len(s.tags) == 0 {
		return nil
	}
	return s.tags
}
