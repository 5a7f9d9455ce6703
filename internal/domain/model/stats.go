package model

import "maps"

// ClassStats accumulates word frequencies of one class.
// Counters only grow: totalWords always equals the sum of words.
type ClassStats struct {
	words      map[string]int
	totalWords int
	documents  int
}

func newClassStats() *ClassStats {
	return &ClassStats{words: make(map[string]int)}
}

func (s *ClassStats) addDocument() { s.documents++ }

func (s *ClassStats) addWord(w string) {
	s.words[w]++
	s.totalWords++
}

// Count returns the occurrences of a token in the class (0 if unseen).
func (s *ClassStats) Count(w string) int { return s.words[w] }

// TotalWords returns the number of token occurrences, repeats included.
func (s *ClassStats) TotalWords() int { return s.totalWords }

// Documents returns the number of training documents of the class.
func (s *ClassStats) Documents() int { return s.documents }

// Vocabulary returns the number of distinct tokens seen in the class.
func (s *ClassStats) Vocabulary() int { return len(s.words) }

// Snapshot returns a copy of the token counts.
func (s *ClassStats) Snapshot() map[string]int { return maps.Clone(s.words) }
