package newsbayes

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
)

func sportsFinance() []Document {
	return []Document{
		{Class: 0, Title: "Goal", Description: "late goal wins the match"},
		{Class: 0, Title: "Match", Description: "team wins"},
		{Class: 1, Title: "Shares", Description: "bank shares fall"},
		{Class: 1, Title: "Bank", Description: "profit and shares"},
	}
}

func trainSportsFinance(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	c, err := Train(context.Background(), []string{"Sports", "Finance"}, sportsFinance(), opts...)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return c
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(context.Background(), nil, sportsFinance())
	if !errors.Is(err, ErrNoClasses) {
		t.Errorf("no classes: expected ErrNoClasses, got %v", err)
	}

	_, err = Train(context.Background(), []string{"only"}, sportsFinance())
	if !errors.Is(err, ErrLabelOutOfRange) {
		t.Errorf("too few classes: expected ErrLabelOutOfRange, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	c := trainSportsFinance(t)

	p, err := c.Classify(context.Background(), "Bank shares", "profit")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if p.Class != 1 || p.Name != "Finance" {
		t.Errorf("got %d (%s), want 1 (Finance)", p.Class, p.Name)
	}
	if len(p.Posteriors) != 2 || !math.IsInf(p.Posteriors[0].LogScore, -1) {
		t.Errorf("posteriors = %+v, want Sports zeroed by unseen words", p.Posteriors)
	}

	_, err = c.Classify(context.Background(), "", " ")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestClassify_PredictionMatchesWinningPosterior(t *testing.T) {
	c := trainSportsFinance(t)

	p, err := c.Classify(context.Background(), "Bank shares", "profit")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(p.Posteriors) != 2 {
		t.Fatalf("posteriors = %d, want 2", len(p.Posteriors))
	}
	win := p.Posteriors[p.Class]
	if p.Score <= 0 || p.Score != win.Score {
		t.Errorf("Score = %v, want winning posterior %v", p.Score, win.Score)
	}
	if p.LogScore != win.LogScore || math.IsInf(p.LogScore, -1) {
		t.Errorf("LogScore = %v, want finite %v", p.LogScore, win.LogScore)
	}
	if p.Name != win.Name {
		t.Errorf("Name = %q, want %q", p.Name, win.Name)
	}
}

func TestClassify_Smoothing(t *testing.T) {
	c := trainSportsFinance(t, WithSmoothing(1))

	p, err := c.Classify(context.Background(), "Bank shares", "profit")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if p.Class != 1 {
		t.Errorf("got class %d, want 1", p.Class)
	}
	for _, s := range p.Posteriors {
		if s.Score <= 0 {
			t.Errorf("smoothed score of %s = %v, want > 0", s.Name, s.Score)
		}
	}
}

func TestClassify_DiacriticFolding(t *testing.T) {
	docs := []Document{
		{Class: 0, Title: "Café", Description: "crème brûlée"},
		{Class: 1, Title: "Stock", Description: "market"},
	}
	c, err := Train(context.Background(), []string{"Food", "Money"}, docs, WithDiacriticFolding())
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	p, err := c.Classify(context.Background(), "cafe", "creme")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if p.Class != 0 || p.Score <= 0 {
		t.Errorf("expected folded words to match Food, got %+v", p)
	}
}

func TestEvaluate(t *testing.T) {
	c := trainSportsFinance(t, WithWorkers(2))

	r, err := c.Evaluate(context.Background(), []Document{
		{Class: 0, Title: "team", Description: "match"},
		{Class: 1, Title: "bank", Description: "profit"},
		{Class: 1, Title: "goal", Description: ""},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if r.Evaluated != 3 || r.Correct != 2 {
		t.Errorf("evaluated/correct = %d/%d, want 3/2", r.Evaluated, r.Correct)
	}
	if !r.Accuracy.Defined || r.Accuracy.Value != 2.0/3.0 {
		t.Errorf("accuracy = %+v", r.Accuracy)
	}
	if r.Matrix[0][1] != 1 {
		t.Errorf("expected finance document predicted as sports, matrix %v", r.Matrix)
	}
	if r.Classes[0].Precision.Value != 0.5 || r.Classes[1].Precision.Value != 1 {
		t.Errorf("precision = %+v / %+v", r.Classes[0].Precision, r.Classes[1].Precision)
	}
	if r.Classes[0].TrainDocuments != 2 {
		t.Errorf("train documents = %d, want 2", r.Classes[0].TrainDocuments)
	}
}

func TestEvaluate_OutOfRange(t *testing.T) {
	c := trainSportsFinance(t)

	_, err := c.Evaluate(context.Background(), []Document{{Class: 7, Title: "goal"}})
	if !errors.Is(err, ErrLabelOutOfRange) {
		t.Fatalf("expected ErrLabelOutOfRange, got %v", err)
	}
}

func TestClasses(t *testing.T) {
	got := trainSportsFinance(t).Classes()

	want := []ClassInfo{
		{Class: 0, Name: "Sports", Documents: 2, TotalWords: 9, Vocabulary: 6},
		{Class: 1, Name: "Finance", Documents: 2, TotalWords: 8, Vocabulary: 5},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Classes() = %+v, want %+v", got, want)
	}
}

func TestHealth(t *testing.T) {
	h := trainSportsFinance(t).Health(context.Background())
	if h.Status != "ok" || h.Checks["model"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestTrainFile_EvaluateFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	train := write("train.csv", "\"Class Index\",\"Title\",\"Description\"\n"+
		"\"1\",\"Goal\",\"team wins match\"\n"+
		"\"2\",\"Shares\",\"bank shares fall\"\n")
	test := write("test.csv", "\"Class Index\",\"Title\",\"Description\"\n"+
		"\"1\",\"team\",\"match\"\n"+
		"\"2\",\"bank\",\"shares\"\n")
	classes := write("classes.txt", "Sports\nBusiness\n")

	c, err := TrainFile(context.Background(), train, WithClassesFile(classes))
	if err != nil {
		t.Fatalf("TrainFile: %v", err)
	}
	if names := []string{c.Classes()[0].Name, c.Classes()[1].Name}; !slices.Equal(names, []string{"Sports", "Business"}) {
		t.Errorf("class names = %q", names)
	}

	r, err := c.EvaluateFile(context.Background(), test)
	if err != nil {
		t.Fatalf("EvaluateFile: %v", err)
	}
	if r.Evaluated != 2 || r.Correct != 2 {
		t.Errorf("evaluated/correct = %d/%d, want 2/2", r.Evaluated, r.Correct)
	}

	if _, err := c.EvaluateFile(context.Background(), filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestTrainFile_DerivedNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.csv")
	content := "0,Goal,team wins\n1,Bank,shares fall\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := TrainFile(context.Background(), path, WithoutHeader(), WithLabelBase(0), WithFormat("csv"))
	if err != nil {
		t.Fatalf("TrainFile: %v", err)
	}
	if got := c.Classes(); got[0].Name != "0" || got[1].Name != "1" {
		t.Errorf("derived names = %q, %q", got[0].Name, got[1].Name)
	}
}

func TestClassifier_ObservesFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	c := &Classifier{
		classSvc: &mockClassificationUC{
			classifyFn: func(context.Context, string, string) (classificationuc.Result, error) {
				return classificationuc.Result{}, ErrModelNotTrained
			},
		},
		evalSvc: &mockEvaluationUC{
			evaluateFn: func(context.Context, []document.Document) (domeval.Report, error) {
				return domeval.Report{}, context.Canceled
			},
		},
		healthSvc: &mockHealthUC{report: healthuc.Report{Status: healthuc.Unhealthy}},
		loader: &mockLoader{
			loadFn: func(context.Context, string) ([]document.Document, error) {
				return nil, ErrMissingColumn
			},
		},
		obs: obs,
	}

	if _, err := c.Classify(context.Background(), "a", "b"); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("Classify: expected ErrModelNotTrained, got %v", err)
	}
	if _, err := c.Evaluate(context.Background(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate: expected context.Canceled, got %v", err)
	}
	if _, err := c.EvaluateFile(context.Background(), "x.csv"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("EvaluateFile: expected ErrMissingColumn, got %v", err)
	}
	if h := c.Health(context.Background()); h.Status != "error" {
		t.Errorf("health status = %q, want error", h.Status)
	}

	for _, op := range []string{"classify", "evaluate", "evaluate_file"} {
		if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues(op, "error")); got != 1 {
			t.Errorf("%s errors = %v, want 1", op, got)
		}
	}
}

func TestWithPrometheus_ReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := trainSportsFinance(t, WithPrometheus(reg))
	second := trainSportsFinance(t, WithPrometheus(reg))
	if _, err := first.Classify(context.Background(), "goal", ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, err := second.Classify(context.Background(), "goal", ""); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if got := testutil.ToFloat64(first.obs.metrics.operations.WithLabelValues("train", "ok")); got != 2 {
		t.Errorf("train ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(second.obs.metrics.operations.WithLabelValues("classify", "ok")); got != 2 {
		t.Errorf("classify ok = %v, want 2 (shared counter)", got)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("classify", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("classify", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "newsbayes_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("newsbayes_sdk_operations_total not found")
	}
}

func TestObserver_IncompatibleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	clash := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "newsbayes",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Total classifier operations by type and status.",
	}, []string{"operation", "status"})
	reg.MustRegister(clash)

	if _, err := newObserver(nil, reg); err == nil {
		t.Fatal("expected error for metric registered with another type")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.New(slog.DiscardHandler), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}
