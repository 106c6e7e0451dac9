package domain

import "encoding/json"

type CompletedEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// CompletedSet holds the actions recorded today, unique by label. The slice
// keeps insertion order for display; membership goes through the map.
// The zero value is an empty set.
type CompletedSet struct {
	entries []CompletedEntry
	labels  map[string]struct{}
}

func NewCompletedSet(entries ...CompletedEntry) CompletedSet {
	var s CompletedSet
	for _, e := range entries {
		s.Add(e.Label, e.Value)
	}
	return s
}

// Add records label once. It reports false when label was already present.
func (s *CompletedSet) Add(label string, value int) bool {
	if s.Has(label) {
		return false
	}
	if s.labels == nil {
		s.labels = make(map[string]struct{})
	}
	s.labels[label] = struct{}{}
	s.entries = append(s.entries, CompletedEntry{Label: label, Value: value})
	return true
}

func (s CompletedSet) Has(label string) bool {
	_, ok := s.labels[label]
	return ok
}

func (s CompletedSet) Len() int {
	return len(s.entries)
}

func (s *CompletedSet) RemoveAt(i int) (CompletedEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return CompletedEntry{}, false
	}
	e := s.entries[i]
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	delete(s.labels, e.Label)
	return e, true
}

func (s *CompletedSet) Clear() {
	s.entries = nil
	s.labels = nil
}

func (s CompletedSet) Entries() []CompletedEntry {
	out := make([]CompletedEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s CompletedSet) Labels() []string {
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Label)
	}
	return out
}

func (s CompletedSet) clone() CompletedSet {
	return NewCompletedSet(s.entries...)
}

func (s CompletedSet) MarshalJSON() ([]byte, error) {
	if s.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.entries)
}

// UnmarshalJSON drops duplicate labels, keeping the first occurrence.
func (s *CompletedSet) UnmarshalJSON(data []byte) error {
	var entries []CompletedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*s = NewCompletedSet(entries...)
	return nil
}
