package newsbayes

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
	"github.com/kailas-cloud/newsbayes/internal/domain/token"
	"github.com/kailas-cloud/newsbayes/internal/repository/dataset"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	evaluationuc "github.com/kailas-cloud/newsbayes/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
	traininguc "github.com/kailas-cloud/newsbayes/internal/usecase/training"
)

// Internal interfaces, swapped out in tests.
type classificationUseCase interface {
	Classify(ctx context.Context, title, description string) (classificationuc.Result, error)
	Classes() []classificationuc.ClassInfo
}

type evaluationUseCase interface {
	Evaluate(ctx context.Context, docs []document.Document) (domeval.Report, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type datasetLoader interface {
	LoadDocuments(ctx context.Context, path string) ([]document.Document, error)
}

// Classifier is a trained model. Safe for concurrent use.
type Classifier struct {
	classSvc  classificationUseCase
	evalSvc   evaluationUseCase
	healthSvc healthUseCase
	loader    datasetLoader
	obs       *observer
}

// Train builds a classifier with one class per name and trains it on docs.
func Train(ctx context.Context, classNames []string, docs []Document, opts ...Option) (c *Classifier, err error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { obs.observe("train", start, err) }()

	return train(ctx, cfg, obs, classNames, docsToDomain(docs))
}

// TrainFile trains a classifier on a CSV or Parquet table.
func TrainFile(ctx context.Context, path string, opts ...Option) (c *Classifier, err error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { obs.observe("train_file", start, err) }()

	repo := newRepo(cfg)
	docs, err := repo.LoadDocuments(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("newsbayes: %w", err)
	}

	var names []string
	if cfg.classesFile != "" {
		if names, err = repo.LoadClassNames(ctx, cfg.classesFile); err != nil {
			return nil, fmt.Errorf("newsbayes: %w", err)
		}
	} else {
		names = dataset.DeriveClassNames(docs, cfg.labelBase)
	}

	return train(ctx, cfg, obs, names, docs)
}

func train(
	ctx context.Context, cfg *clientConfig, obs *observer, names []string, docs []document.Document,
) (*Classifier, error) {
	var modelOpts []model.Option
	if cfg.smoothing > 0 {
		modelOpts = append(modelOpts, model.WithSmoothing(cfg.smoothing))
	}
	if cfg.foldDiacritics {
		modelOpts = append(modelOpts, model.WithTokenizer(token.New(token.WithDiacriticFolding())))
	}

	m, err := traininguc.New(nil, modelOpts...).Train(ctx, names, docs)
	if err != nil {
		return nil, fmt.Errorf("newsbayes: %w", err)
	}

	return &Classifier{
		classSvc:  classificationuc.New(m),
		evalSvc:   evaluationuc.New(m, nil).WithWorkers(cfg.workers),
		healthSvc: healthuc.New(m, nil),
		loader:    newRepo(cfg),
		obs:       obs,
	}, nil
}

func newRepo(cfg *clientConfig) *dataset.Repo {
	return dataset.New(dataset.Config{
		Format:    cfg.format,
		LabelBase: cfg.labelBase,
		HasHeader: !cfg.noHeader,
	})
}

// Classify predicts the class of a document.
func (c *Classifier) Classify(ctx context.Context, title, description string) (p Prediction, err error) {
	start := time.Now()
	defer func() { c.obs.observe("classify", start, err) }()

	r, err := c.classSvc.Classify(ctx, title, description)
	if err != nil {
		return Prediction{}, fmt.Errorf("classify: %w", err)
	}
	return predictionFromDomain(r), nil
}

// Evaluate classifies every held-out document and reports precision.
// A document whose class is outside the model fails the whole evaluation.
func (c *Classifier) Evaluate(ctx context.Context, docs []Document) (r Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("evaluate", start, err) }()

	return c.evaluate(ctx, docsToDomain(docs))
}

// EvaluateFile evaluates the classifier on a CSV or Parquet table.
func (c *Classifier) EvaluateFile(ctx context.Context, path string) (r Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe("evaluate_file", start, err) }()

	docs, err := c.loader.LoadDocuments(ctx, path)
	if err != nil {
		return Report{}, fmt.Errorf("newsbayes: %w", err)
	}
	return c.evaluate(ctx, docs)
}

func (c *Classifier) evaluate(ctx context.Context, docs []document.Document) (Report, error) {
	rep, err := c.evalSvc.Evaluate(ctx, docs)
	if err != nil {
		return Report{}, fmt.Errorf("evaluate: %w", err)
	}
	return reportFromDomain(rep), nil
}

// Classes lists every class with its training statistics.
func (c *Classifier) Classes() []ClassInfo {
	infos := c.classSvc.Classes()
	out := make([]ClassInfo, len(infos))
	for i, info := range infos {
		out[i] = ClassInfo{
			Class:      int(info.Class),
			Name:       info.Name,
			Documents:  info.Documents,
			TotalWords: info.TotalWords,
			Vocabulary: info.Vocabulary,
		}
	}
	return out
}

// Health reports whether the classifier was trained on anything.
func (c *Classifier) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
