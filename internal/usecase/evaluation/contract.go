package evaluation

import (
	"time"

	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
)

// Classifier is a trained, read-only model.
type Classifier interface {
	Classify(doc document.Document) model.Prediction
	NumClasses() int
	ClassNames() []string
	ClassDocuments() []int
}

// Recorder receives finished evaluation reports.
type Recorder interface {
	ObserveEvaluation(r domeval.Report, elapsed time.Duration)
}
