package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/config"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
	"github.com/kailas-cloud/newsbayes/internal/domain/token"
	"github.com/kailas-cloud/newsbayes/internal/metrics"
	"github.com/kailas-cloud/newsbayes/internal/repository/dataset"
	evaluationuc "github.com/kailas-cloud/newsbayes/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
	traininguc "github.com/kailas-cloud/newsbayes/internal/usecase/training"
)

// app is the trained pipeline shared by every command.
type app struct {
	registry   *prometheus.Registry
	collector  *metrics.Collector
	model      *model.Model
	evaluation *evaluationuc.Service // nil without a held-out table
	report     *domeval.Report       // nil without a held-out table
}

// build loads the tables, trains the model and evaluates it when a held-out table is configured.
func build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	repo := dataset.New(dataset.Config{
		Format:    cfg.Data.Format,
		LabelBase: *cfg.Data.LabelBase,
		HasHeader: *cfg.Data.HasHeader,
		Columns: dataset.Columns{
			Label:       cfg.Data.Columns.Label,
			Title:       cfg.Data.Columns.Title,
			Description: cfg.Data.Columns.Description,
		},
	})

	trainDocs, err := repo.LoadDocuments(ctx, cfg.Data.TrainPath)
	if err != nil {
		return nil, fmt.Errorf("load training table: %w", err)
	}

	var names []string
	if cfg.Data.ClassesPath != "" {
		names, err = repo.LoadClassNames(ctx, cfg.Data.ClassesPath)
		if err != nil {
			return nil, fmt.Errorf("load class names: %w", err)
		}
	} else {
		names = dataset.DeriveClassNames(trainDocs, *cfg.Data.LabelBase)
	}
	logger.Info("Classes resolved", zap.Strings("classes", names))

	var opts []model.Option
	if cfg.Model.Smoothing > 0 {
		opts = append(opts, model.WithSmoothing(cfg.Model.Smoothing))
	}
	if cfg.Model.FoldDiacritics {
		opts = append(opts, model.WithTokenizer(token.New(token.WithDiacriticFolding())))
	}

	m, err := traininguc.New(collector, opts...).Train(ctx, names, trainDocs)
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}

	a := &app{registry: registry, collector: collector, model: m}
	if cfg.Data.TestPath == "" {
		logger.Warn("No held-out table configured, skipping evaluation")
		return a, nil
	}

	testDocs, err := repo.LoadDocuments(ctx, cfg.Data.TestPath)
	if err != nil {
		return nil, fmt.Errorf("load held-out table: %w", err)
	}

	a.evaluation = evaluationuc.New(m, collector).WithWorkers(cfg.Evaluation.Workers)
	rep, err := a.evaluation.Evaluate(ctx, testDocs)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	a.report = &rep

	return a, nil
}

// health checks the model and the evaluation report. Without a held-out table
// there is never a report, so the service stays degraded.
func (a *app) health() *healthuc.Service {
	if a.evaluation == nil {
		return healthuc.New(a.model, noReport{})
	}
	return healthuc.New(a.model, a.evaluation)
}

type noReport struct{}

func (noReport) HasReport(context.Context) bool { return false }
