package training

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
	logpkg "github.com/kailas-cloud/newsbayes/internal/logger"
)

// Service builds and trains a model in a single batch pass.
type Service struct {
	opts     []model.Option
	recorder Recorder
}

// New creates a training service. recorder can be nil.
func New(recorder Recorder, opts ...model.Option) *Service {
	return &Service{opts: opts, recorder: recorder}
}

// Train creates a model with one slot per class name and trains it on docs.
func (s *Service) Train(ctx context.Context, classNames []string, docs []document.Document) (*model.Model, error) {
	logger := logpkg.FromContext(ctx)

	m, err := model.New(classNames, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}

	start := time.Now()
	if err := m.Train(docs); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	for i, name := range classNames {
		stats := m.Stats(domain.ClassID(i))
		if stats.Documents() == 0 {
			logger.Warn("Class has no training documents",
				zap.Int("class", i),
				zap.String("name", name),
			)
		}
		logger.Debug("Class trained",
			zap.Int("class", i),
			zap.String("name", name),
			zap.Int("documents", stats.Documents()),
			zap.Int("total_words", stats.TotalWords()),
			zap.Int("vocabulary", stats.Vocabulary()),
		)
	}

	logger.Info("Model trained",
		zap.Int("classes", m.NumClasses()),
		zap.Int("documents", m.TotalDocuments()),
		zap.Int("vocabulary", m.Vocabulary()),
		zap.Float64("smoothing", m.Smoothing()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if s.recorder != nil {
		s.recorder.ObserveTraining(m)
	}
	return m, nil
}
