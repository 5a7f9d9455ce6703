package newsbayes

import (
	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
)

// Document is a labeled news item. Class is zero-based.
type Document struct {
	Class       int
	Title       string
	Description string
}

// Score is the unnormalized posterior of one class.
// LogScore is -Inf when a word of the document never occurred in the class.
type Score struct {
	Class    int
	Name     string
	Score    float64
	LogScore float64
}

// Prediction is the most probable class of a document with every class score.
type Prediction struct {
	Class      int
	Name       string
	Score      float64
	LogScore   float64
	Posteriors []Score
}

// ClassInfo summarizes the training statistics of a class.
type ClassInfo struct {
	Class      int
	Name       string
	Documents  int
	TotalWords int
	Vocabulary int
}

// Precision is a ratio that is undefined when nothing was counted.
type Precision struct {
	Value   float64
	Defined bool
}

// ClassReport is the evaluation outcome of one class.
type ClassReport struct {
	Class          int
	Name           string
	TrainDocuments int
	Evaluated      int // held-out documents of this class
	Predicted      int // held-out documents predicted as this class
	Precision      Precision
}

// Report is the outcome of an evaluation.
// Matrix[p][a] counts documents of class a predicted as p.
type Report struct {
	Classes   []ClassReport
	Matrix    [][]int
	Evaluated int
	Correct   int
	Accuracy  Precision
}

// HealthStatus represents the aggregated classifier health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

func docsToDomain(docs []Document) []document.Document {
	out := make([]document.Document, len(docs))
	for i, d := range docs {
		out[i] = document.New(domain.ClassID(d.Class), d.Title, d.Description)
	}
	return out
}

func scoreFromDomain(s classificationuc.Score) Score {
	return Score{Class: int(s.Class), Name: s.Name, Score: s.Score, LogScore: s.LogScore}
}

func predictionFromDomain(r classificationuc.Result) Prediction {
	posteriors := make([]Score, len(r.Posteriors))
	for i, p := range r.Posteriors {
		posteriors[i] = scoreFromDomain(p)
	}
	return Prediction{
		Class:      int(r.Class),
		Name:       r.Name,
		Score:      r.Score,
		LogScore:   r.LogScore,
		Posteriors: posteriors,
	}
}

func reportFromDomain(r domeval.Report) Report {
	classes := make([]ClassReport, len(r.Classes))
	for i, c := range r.Classes {
		classes[i] = ClassReport{
			Class:          int(c.Class),
			Name:           c.Name,
			TrainDocuments: c.TrainDocuments,
			Evaluated:      c.Evaluated,
			Predicted:      c.Predicted,
			Precision:      Precision(c.Precision),
		}
	}
	var matrix [][]int
	if r.Matrix != nil {
		matrix = r.Matrix.Rows()
	}
	return Report{
		Classes:   classes,
		Matrix:    matrix,
		Evaluated: r.Evaluated,
		Correct:   r.Correct,
		Accuracy:  Precision(r.Overall),
	}
}
