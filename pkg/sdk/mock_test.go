package newsbayes

import (
	"context"

	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
)

// --- classificationUseCase mock ---

type mockClassificationUC struct {
	classifyFn func(ctx context.Context, title, description string) (classificationuc.Result, error)
	classesFn  func() []classificationuc.ClassInfo
}

func (m *mockClassificationUC) Classify(
	ctx context.Context, title, description string,
) (classificationuc.Result, error) {
	return m.classifyFn(ctx, title, description)
}

func (m *mockClassificationUC) Classes() []classificationuc.ClassInfo {
	return m.classesFn()
}

// --- evaluationUseCase mock ---

type mockEvaluationUC struct {
	evaluateFn func(ctx context.Context, docs []document.Document) (domeval.Report, error)
}

func (m *mockEvaluationUC) Evaluate(ctx context.Context, docs []document.Document) (domeval.Report, error) {
	return m.evaluateFn(ctx, docs)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- datasetLoader mock ---

type mockLoader struct {
	loadFn func(ctx context.Context, path string) ([]document.Document, error)
}

func (m *mockLoader) LoadDocuments(ctx context.Context, path string) ([]document.Document, error) {
	return m.loadFn(ctx, path)
}
