package newsbayes

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Classifier.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	smoothing      float64
	foldDiacritics bool
	workers        int

	format      string
	labelBase   int
	noHeader    bool
	classesFile string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{workers: 1, labelBase: 1}
}

// WithSmoothing enables additive smoothing with the given pseudo-count.
// Default: 0, so one word unseen in a class zeroes that class.
func WithSmoothing(alpha float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.smoothing = alpha
	})
}

// WithDiacriticFolding makes "café" and "cafe" the same word.
func WithDiacriticFolding() Option {
	return optionFunc(func(c *clientConfig) {
		c.foldDiacritics = true
	})
}

// WithWorkers sets the number of goroutines used by Evaluate.
// Default: 1.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithFormat forces the table format ("csv" or "parquet") of TrainFile and EvaluateFile.
// Default: picked by file extension.
func WithFormat(format string) Option {
	return optionFunc(func(c *clientConfig) {
		c.format = format
	})
}

// WithLabelBase sets the source label of class 0 in tables.
// Default: 1 (AG News labels are 1..4).
func WithLabelBase(base int) Option {
	return optionFunc(func(c *clientConfig) {
		c.labelBase = base
	})
}

// WithoutHeader reads CSV tables without a header row, as label, title, description.
func WithoutHeader() Option {
	return optionFunc(func(c *clientConfig) {
		c.noHeader = true
	})
}

// WithClassesFile names the classes of TrainFile from a file with one name per line.
// Without it, classes are named after their labels.
func WithClassesFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.classesFile = path
	})
}

// WithLogger enables structured logging for classifier operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers operation counts and durations
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
