package classification

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	logpkg "github.com/kailas-cloud/newsbayes/internal/logger"
)

// Result is the classification of a single ad-hoc document.
type Result struct {
	Class      domain.ClassID
	Name       string
	Score      float64
	LogScore   float64
	Posteriors []Score
}

// Score is the unnormalized posterior of one class.
type Score struct {
	Class    domain.ClassID
	Name     string
	Score    float64
	LogScore float64
}

// ClassInfo summarizes the training statistics of a class.
type ClassInfo struct {
	Class      domain.ClassID
	Name       string
	Documents  int
	TotalWords int
	Vocabulary int
}

// Service classifies documents against a trained model. Safe for concurrent use.
type Service struct {
	model Model
}

// New creates a classification service.
func New(m Model) *Service {
	return &Service{model: m}
}

// Classify predicts the class of a document given its title and description.
func (s *Service) Classify(ctx context.Context, title, description string) (Result, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return Result{}, domain.ErrEmptyDocument
	}
	if s.model.TotalDocuments() == 0 {
		return Result{}, domain.ErrModelNotTrained
	}

	// The class of an ad-hoc document is unknown; 0 is a placeholder never read.
	doc := document.New(0, title, description)
	pred := s.model.Classify(doc)

	logpkg.FromContext(ctx).Debug("Document classified",
		zap.Int("class", int(pred.Class)),
		zap.Float64("log_score", pred.LogScore),
	)

	posteriors := s.model.Posteriors(doc)
	scores := make([]Score, len(posteriors))
	for i, p := range posteriors {
		scores[i] = Score{
			Class:    p.Class,
			Name:     s.model.ClassName(p.Class),
			Score:    p.Score,
			LogScore: p.LogScore,
		}
	}

	return Result{
		Class:      pred.Class,
		Name:       s.model.ClassName(pred.Class),
		Score:      pred.Score,
		LogScore:   pred.LogScore,
		Posteriors: scores,
	}, nil
}

// Classes lists every class with its training statistics.
func (s *Service) Classes() []ClassInfo {
	names := s.model.ClassNames()
	out := make([]ClassInfo, len(names))
	for i, name := range names {
		c := domain.ClassID(i)
		stats := s.model.Stats(c)
		out[i] = ClassInfo{
			Class:      c,
			Name:       name,
			Documents:  stats.Documents(),
			TotalWords: stats.TotalWords(),
			Vocabulary: stats.Vocabulary(),
		}
	}
	return out
}
