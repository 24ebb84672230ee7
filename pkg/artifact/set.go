package artifact

// Set is an insertion-ordered collection of artifacts without duplicates.
// The zero value is ready to use.
type Set struct {
	seen  map[string]struct{}
	items []Artifact
}

// Add inserts a unless an artifact with the same key is present.
// It reports whether a was added.
func (s *Set) Add(a Artifact) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	k := a.Key()
	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, a)
	return true
}

// AddAll inserts every artifact in as.
func (s *Set) AddAll(as ...Artifact) {
	for _, a := range as {
		s.Add(a)
	}
}

// Len returns the number of artifacts.
func (s *Set) Len() int { return len(s.items) }

// Slice returns the artifacts in insertion order.
func (s *Set) Slice() []Artifact {
	out := make([]Artifact, len(s.items))
	copy(out, s.items)
	return out
}
