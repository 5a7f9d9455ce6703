// Package model implements a multinomial Naive Bayes text classifier.
package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	"github.com/kailas-cloud/newsbayes/internal/domain/token"
)

// Model owns one ClassStats per class, index-aligned with the class names.
// Train mutates it; Classify and the accessors only read.
type Model struct {
	names     []string
	classes   []*ClassStats
	vocab     map[string]struct{}
	tokenizer *token.Tokenizer
	alpha     float64
}

// Option configures a Model.
type Option func(*Model)

// WithSmoothing enables additive smoothing with the given pseudo-count.
// 0 keeps raw frequencies: a token unseen in a class zeroes that class.
func WithSmoothing(alpha float64) Option {
	return func(m *Model) {
		if alpha > 0 {
			m.alpha = alpha
		}
	}
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(t *token.Tokenizer) Option {
	return func(m *Model) {
		if t != nil {
			m.tokenizer = t
		}
	}
}

// New creates an empty model with one slot per class name.
func New(classNames []string, opts ...Option) (*Model, error) {
	if len(classNames) == 0 {
		return nil, domain.ErrNoClasses
	}
	m := &Model{
		names:     slices.Clone(classNames),
		classes:   make([]*ClassStats, len(classNames)),
		vocab:     make(map[string]struct{}),
		tokenizer: token.Default(),
	}
	for i := range m.classes {
		m.classes[i] = newClassStats()
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// NumClasses returns N.
func (m *Model) NumClasses() int { return len(m.classes) }

// ClassNames returns a copy of the display names.
func (m *Model) ClassNames() []string { return slices.Clone(m.names) }

// ClassName returns the display name of a class.
func (m *Model) ClassName(c domain.ClassID) string {
	if !c.Valid(len(m.names)) {
		return ""
	}
	return m.names[c]
}

// Stats returns the statistics of a class, nil for an unknown class.
func (m *Model) Stats(c domain.ClassID) *ClassStats {
	if !c.Valid(len(m.classes)) {
		return nil
	}
	return m.classes[c]
}

// Vocabulary returns the number of distinct tokens across all classes.
func (m *Model) Vocabulary() int { return len(m.vocab) }

// Smoothing returns the additive smoothing pseudo-count.
func (m *Model) Smoothing() float64 { return m.alpha }

// TotalDocuments returns the number of training documents over all classes.
func (m *Model) TotalDocuments() int {
	n := 0
	for _, c := range m.classes {
		n += c.documents
	}
	return n
}

// ClassDocuments returns the training document count of every class.
func (m *Model) ClassDocuments() []int {
	out := make([]int, len(m.classes))
	for i, c := range m.classes {
		out[i] = c.documents
	}
	return out
}

// Train accumulates the documents into the class statistics.
// All classes are checked before anything is counted, so a bad label leaves the model untouched.
func (m *Model) Train(docs []document.Document) error {
	for i, d := range docs {
		if !d.Class().Valid(len(m.classes)) {
			return fmt.Errorf("document %d: %w", i, domain.NewLabelOutOfRange(d.Class(), len(m.classes)))
		}
	}

	for _, d := range docs {
		stats := m.classes[d.Class()]
		stats.addDocument()
		for w := range m.tokenizer.Tokens(d.Text()) {
			stats.addWord(w)
			m.vocab[w] = struct{}{}
		}
	}
	return nil
}

// Posterior is the unnormalized posterior of one class.
// Score = P(class) * prod P(word|class); LogScore is its base-2 logarithm.
type Posterior struct {
	Class    domain.ClassID
	Score    float64
	LogScore float64
}

// Prediction is the MAP class of a document.
type Prediction = Posterior

// Classify returns the class with the strictly greatest posterior.
// Classes are compared in log space; ties and all-zero posteriors resolve to the lowest index.
func (m *Model) Classify(doc document.Document) Prediction {
	best := Prediction{Class: 0, LogScore: math.Inf(-1)}
	for _, p := range m.Posteriors(doc) {
		if p.LogScore > best.LogScore {
			best = p
		}
	}
	return best
}

// Posteriors scores the document against every class.
func (m *Model) Posteriors(doc document.Document) []Posterior {
	words := slices.Collect(m.tokenizer.Tokens(doc.Text()))
	total := m.TotalDocuments()
	vocab := float64(len(m.vocab))

	out := make([]Posterior, len(m.classes))
	for i, stats := range m.classes {
		pClass := ratio(float64(stats.documents), float64(total))

		logLikelihood := 0.0
		denom := float64(stats.totalWords) + m.alpha*vocab
		for _, w := range words {
			pWord := ratio(float64(stats.words[w])+m.alpha, denom)
			logLikelihood += math.Log2(pWord)
		}

		out[i] = Posterior{
			Class:    domain.ClassID(i),
			Score:    pClass * math.Exp2(logLikelihood),
			LogScore: math.Log2(pClass) + logLikelihood,
		}
	}
	return out
}

// ratio divides, mapping a zero denominator to probability 0 instead of NaN.
func ratio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
