package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
)

const namespace = "newsbayes"

// Collector holds the classifier and HTTP metrics of one process.
type Collector struct {
	trainingDocuments *prometheus.CounterVec
	trainingTokens    *prometheus.CounterVec
	vocabularySize    prometheus.Gauge

	classificationsTotal *prometheus.CounterVec
	classPrecision       *prometheus.GaugeVec
	accuracy             prometheus.Gauge
	evaluationDuration   prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		trainingDocuments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "training_documents_total",
				Help:      "Training documents accumulated per class",
			},
			[]string{"class", "name"},
		),
		trainingTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "training_tokens_total",
				Help:      "Training tokens accumulated per class",
			},
			[]string{"class", "name"},
		),
		vocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_size",
			Help:      "Distinct words seen during training",
		}),
		classificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Held-out documents by predicted and actual class id",
			},
			[]string{"predicted", "actual"},
		),
		classPrecision: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "class_precision",
				Help:      "Precision per predicted class of the last evaluation",
			},
			[]string{"class", "name"},
		),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accuracy",
			Help:      "Overall precision of the last evaluation",
		}),
		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Evaluation run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
	}

	for _, m := range []prometheus.Collector{
		c.trainingDocuments,
		c.trainingTokens,
		c.vocabularySize,
		c.classificationsTotal,
		c.classPrecision,
		c.accuracy,
		c.evaluationDuration,
		c.httpRequestsTotal,
		c.httpRequestDuration,
	} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return c, nil
}

// ObserveTraining records per-class document and token counts of a trained model.
func (c *Collector) ObserveTraining(m *model.Model) {
	for i := range m.NumClasses() {
		id := domain.ClassID(i)
		stats := m.Stats(id)
		name := classLabel(id, m.ClassName(id))
		c.trainingDocuments.WithLabelValues(id.String(), name).Add(float64(stats.Documents()))
		c.trainingTokens.WithLabelValues(id.String(), name).Add(float64(stats.TotalWords()))
	}
	c.vocabularySize.Set(float64(m.Vocabulary()))
}

// ObserveEvaluation records the confusion matrix and precision of a finished run.
// Undefined precisions are left unset.
func (c *Collector) ObserveEvaluation(r domeval.Report, elapsed time.Duration) {
	c.evaluationDuration.Observe(elapsed.Seconds())

	ids := make([]string, len(r.Classes))
	for i, s := range r.Classes {
		ids[i] = s.Class.String()
	}

	if r.Matrix != nil {
		for p, row := range r.Matrix.Rows() {
			for a, n := range row {
				if n == 0 || p >= len(ids) || a >= len(ids) {
					continue
				}
				c.classificationsTotal.WithLabelValues(ids[p], ids[a]).Add(float64(n))
			}
		}
	}

	for i, s := range r.Classes {
		name := classLabel(s.Class, s.Name)
		if !s.Precision.Defined {
			c.classPrecision.DeleteLabelValues(ids[i], name)
			continue
		}
		c.classPrecision.WithLabelValues(ids[i], name).Set(s.Precision.Value)
	}

	if r.Overall.Defined {
		c.accuracy.Set(r.Overall.Value)
	}
}

// WriteTextfile exports everything gathered by g in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// classLabel is the value of the name label. Series are keyed by the class id,
// so duplicate names never merge; unnamed classes repeat the id.
func classLabel(id domain.ClassID, name string) string {
	if name == "" {
		return id.String()
	}
	return name
}
