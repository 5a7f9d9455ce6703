package classification

import (
	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
)

// Model is the trained classifier queried by the service.
type Model interface {
	Classify(doc document.Document) model.Prediction
	Posteriors(doc document.Document) []model.Posterior
	ClassName(c domain.ClassID) string
	ClassNames() []string
	Stats(c domain.ClassID) *model.ClassStats
	TotalDocuments() int
}
