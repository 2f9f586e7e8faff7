package addon

import "strings"

// KeywordSet is an insertion-ordered set of lowercase keywords.
type KeywordSet struct {
	items []string
	index map[string]struct{}
}

// NewKeywordSet builds a set from words, dropping blanks and duplicates.
func NewKeywordSet(words ...string) *KeywordSet {
	s := &KeywordSet{index: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts a keyword. Keywords are trimmed and lowercased.
func (s *KeywordSet) Add(word string) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[w]; ok {
		return
	}
	s.index[w] = struct{}{}
	s.items = append(s.items, w)
}

// Has reports whether word is in the set.
func (s *KeywordSet) Has(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[word]
	return ok
}

// Len returns the number of keywords.
func (s *KeywordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the keywords in insertion order.
func (s *KeywordSet) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
