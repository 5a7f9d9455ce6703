package evaluation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	logpkg "github.com/kailas-cloud/newsbayes/internal/logger"
)

// ctxCheckEvery is how many documents a worker classifies between cancellation checks.
const ctxCheckEvery = 1024

// Service classifies held-out documents and builds the precision report.
type Service struct {
	classifier Classifier
	recorder   Recorder
	workers    int

	mu   sync.RWMutex
	last *domeval.Report
}

// New creates an evaluation service. recorder can be nil.
func New(classifier Classifier, recorder Recorder) *Service {
	return &Service{classifier: classifier, recorder: recorder, workers: 1}
}

// WithWorkers sets the number of goroutines classifying documents.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Evaluate classifies every document and records matrix[predicted][actual].
// Each worker fills a private matrix; they are merged once all workers finish,
// so the report does not depend on the worker count.
func (s *Service) Evaluate(ctx context.Context, docs []document.Document) (domeval.Report, error) {
	logger := logpkg.FromContext(ctx)
	start := time.Now()
	n := s.classifier.NumClasses()

	chunk := max(1, (len(docs)+s.workers-1)/s.workers)
	parts := (len(docs) + chunk - 1) / chunk
	matrices := make([]*domeval.ConfusionMatrix, parts)
	errs := make([]error, parts)

	var wg sync.WaitGroup
	for p := range parts {
		lo := p * chunk
		hi := min(lo+chunk, len(docs))
		matrices[p] = domeval.NewConfusionMatrix(n)

		wg.Go(func() {
			errs[p] = s.classifyRange(ctx, docs[lo:hi], lo, matrices[p])
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return domeval.Report{}, err
		}
	}

	matrix := domeval.NewConfusionMatrix(n)
	for _, m := range matrices {
		matrix.Merge(m)
	}

	report := domeval.NewReport(matrix, s.classifier.ClassNames(), s.classifier.ClassDocuments())
	elapsed := time.Since(start)

	if report.Evaluated == 0 {
		logger.Warn("No held-out documents to evaluate")
	}
	logger.Info("Evaluation finished",
		zap.Int("evaluated", report.Evaluated),
		zap.Int("correct", report.Correct),
		zap.Float64("accuracy", report.Overall.Value),
		zap.Int("workers", len(matrices)),
		zap.Duration("elapsed", elapsed),
	)

	if s.recorder != nil {
		s.recorder.ObserveEvaluation(report, elapsed)
	}

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	return report, nil
}

// Last returns the most recent report.
func (s *Service) Last() (domeval.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domeval.Report{}, domain.ErrReportNotFound
	}
	return *s.last, nil
}

// classifyRange classifies docs into m; offset is the index of docs[0] in the full set.
func (s *Service) classifyRange(
	ctx context.Context, docs []document.Document, offset int, m *domeval.ConfusionMatrix,
) error {
	for i, d := range docs {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
		}
		pred := s.classifier.Classify(d)
		if err := m.Add(pred.Class, d.Class()); err != nil {
			return fmt.Errorf("held-out document %d: %w", offset+i, err)
		}
	}
	return nil
}

// HasReport reports whether an evaluation has completed.
func (s *Service) HasReport(_ context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last != nil
}
