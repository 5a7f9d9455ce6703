package training

import "github.com/kailas-cloud/newsbayes/internal/domain/model"

// Recorder receives the statistics of a trained model.
type Recorder interface {
	ObserveTraining(m *model.Model)
}
