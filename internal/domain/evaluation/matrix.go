// Package evaluation holds the confusion matrix and the precision report.
package evaluation

import "github.com/kailas-cloud/newsbayes/internal/domain"

// ConfusionMatrix counts predictions: cells[predicted][actual].
type ConfusionMatrix struct {
	cells [][]int
}

// NewConfusionMatrix creates a zeroed n x n matrix.
func NewConfusionMatrix(n int) *ConfusionMatrix {
	cells := make([][]int, n)
	for i := range cells {
		cells[i] = make([]int, n)
	}
	return &ConfusionMatrix{cells: cells}
}

// Size returns n.
func (m *ConfusionMatrix) Size() int { return len(m.cells) }

// Add records one prediction. Both classes must be valid for the matrix size.
func (m *ConfusionMatrix) Add(predicted, actual domain.ClassID) error {
	n := len(m.cells)
	if !predicted.Valid(n) {
		return domain.NewLabelOutOfRange(predicted, n)
	}
	if !actual.Valid(n) {
		return domain.NewLabelOutOfRange(actual, n)
	}
	m.cells[predicted][actual]++
	return nil
}

// At returns the count of documents of class actual predicted as predicted.
func (m *ConfusionMatrix) At(predicted, actual domain.ClassID) int {
	return m.cells[predicted][actual]
}

// RowSum returns all predictions made for a class (true + false positives).
func (m *ConfusionMatrix) RowSum(predicted domain.ClassID) int {
	sum := 0
	for _, v := range m.cells[predicted] {
		sum += v
	}
	return sum
}

// ColumnSum returns the number of evaluated documents of a class.
func (m *ConfusionMatrix) ColumnSum(actual domain.ClassID) int {
	sum := 0
	for _, row := range m.cells {
		sum += row[actual]
	}
	return sum
}

// Total returns the number of recorded predictions.
func (m *ConfusionMatrix) Total() int {
	sum := 0
	for _, row := range m.cells {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// Correct returns the sum of the diagonal.
func (m *ConfusionMatrix) Correct() int {
	sum := 0
	for i := range m.cells {
		sum += m.cells[i][i]
	}
	return sum
}

// Merge adds the counts of other into m. Sizes must match.
func (m *ConfusionMatrix) Merge(other *ConfusionMatrix) {
	for i, row := range other.cells {
		for j, v := range row {
			m.cells[i][j] += v
		}
	}
}

// Rows returns a copy of the cells.
func (m *ConfusionMatrix) Rows() [][]int {
	out := make([][]int, len(m.cells))
	for i, row := range m.cells {
		out[i] = append([]int(nil), row...)
	}
	return out
}
