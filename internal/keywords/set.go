// Package keywords manages the blocked keyword set: its in-memory
// representation, the line-delimited file format and the persisted store.
package keywords

// Set is an insertion-ordered collection of unique, non-empty keywords.
// Equality is exact string comparison. A Set is not safe for concurrent use;
// Store serializes access to the persisted one.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet builds a set from keywords, dropping empty entries and duplicates.
func NewSet(keywords ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(keywords))}
	for _, k := range keywords {
		s.Add(k)
	}
	return s
}

// Add appends keyword unless it is empty or already present.
func (s *Set) Add(keyword string) bool {
	if keyword == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[keyword]; ok {
		return false
	}
	s.index[keyword] = struct{}{}
	s.items = append(s.items, keyword)
	return true
}

// Remove deletes keyword and reports whether it was present.
func (s *Set) Remove(keyword string) bool {
	if _, ok := s.index[keyword]; !ok {
		return false
	}
	delete(s.index, keyword)
	for i, k := range s.items {
		if k == keyword {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether keyword is in the set.
func (s *Set) Contains(keyword string) bool {
	_, ok := s.index[keyword]
	return ok
}

// List returns a snapshot of the keywords in insertion order.
func (s *Set) List() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of keywords.
func (s *Set) Len() int {
	return len(s.items)
}
