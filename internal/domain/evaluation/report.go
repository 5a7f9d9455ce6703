package evaluation

import "github.com/kailas-cloud/newsbayes/internal/domain"

// Precision is a ratio that may be undefined (zero denominator).
// An undefined precision has Value 0.
type Precision struct {
	Value   float64
	Defined bool
}

// NewPrecision divides hits by total; total 0 yields an undefined precision.
func NewPrecision(hits, total int) Precision {
	if total == 0 {
		return Precision{}
	}
	return Precision{Value: float64(hits) / float64(total), Defined: true}
}

// ClassSummary describes one class in a report.
type ClassSummary struct {
	Class          domain.ClassID
	Name           string
	TrainDocuments int
	Evaluated      int // held-out documents of this class
	Predicted      int // held-out documents predicted as this class
	Precision      Precision
}

// Report is the outcome of one evaluation run.
type Report struct {
	Classes   []ClassSummary
	Matrix    *ConfusionMatrix
	Evaluated int
	Correct   int
	Overall   Precision
}

// NewReport derives per-class and overall precision from a filled matrix.
// names and trainDocs are index-aligned with the matrix.
func NewReport(matrix *ConfusionMatrix, names []string, trainDocs []int) Report {
	classes := make([]ClassSummary, matrix.Size())
	for i := range classes {
		c := domain.ClassID(i)
		s := ClassSummary{
			Class:     c,
			Evaluated: matrix.ColumnSum(c),
			Predicted: matrix.RowSum(c),
			Precision: NewPrecision(matrix.At(c, c), matrix.RowSum(c)),
		}
		if i < len(names) {
			s.Name = names[i]
		}
		if i < len(trainDocs) {
			s.TrainDocuments = trainDocs[i]
		}
		classes[i] = s
	}

	return Report{
		Classes:   classes,
		Matrix:    matrix,
		Evaluated: matrix.Total(),
		Correct:   matrix.Correct(),
		Overall:   NewPrecision(matrix.Correct(), matrix.Total()),
	}
}
