// Package report renders evaluation reports as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	domeval "github.com/kailas-cloud/newsbayes/internal/domain/evaluation"
)

// Format selects the rendering of a report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Summary is the wire form of an evaluation report.
// Undefined precisions are nil.
type Summary struct {
	Evaluated int      `json:"evaluated" yaml:"evaluated"`
	Correct   int      `json:"correct" yaml:"correct"`
	Accuracy  *float64 `json:"accuracy" yaml:"accuracy"`
	Classes   []Class  `json:"classes" yaml:"classes"`
	Matrix    [][]int  `json:"confusion_matrix" yaml:"confusion_matrix"`
}

// Class is one row of the per-class summary.
type Class struct {
	ID             int      `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	TrainDocuments int      `json:"train_documents" yaml:"train_documents"`
	Evaluated      int      `json:"evaluated" yaml:"evaluated"`
	Predicted      int      `json:"predicted" yaml:"predicted"`
	Precision      *float64 `json:"precision" yaml:"precision"`
}

// FromDomain converts a report to its wire form.
func FromDomain(r domeval.Report) Summary {
	classes := make([]Class, len(r.Classes))
	for i, c := range r.Classes {
		classes[i] = Class{
			ID:             int(c.Class),
			Name:           c.Name,
			TrainDocuments: c.TrainDocuments,
			Evaluated:      c.Evaluated,
			Predicted:      c.Predicted,
			Precision:      precisionPtr(c.Precision),
		}
	}

	var matrix [][]int
	if r.Matrix != nil {
		matrix = r.Matrix.Rows()
	}

	return Summary{
		Evaluated: r.Evaluated,
		Correct:   r.Correct,
		Accuracy:  precisionPtr(r.Overall),
		Classes:   classes,
		Matrix:    matrix,
	}
}

// Writer renders reports in a fixed format.
type Writer struct {
	format Format
}

// NewWriter creates a Writer; an empty format means text.
func NewWriter(format string) (*Writer, error) {
	switch f := Format(format); f {
	case "":
		return &Writer{format: FormatText}, nil
	case FormatText, FormatJSON, FormatYAML:
		return &Writer{format: f}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Format returns the rendering format.
func (w *Writer) Format() Format { return w.format }

// Write renders r to out.
func (w *Writer) Write(out io.Writer, r domeval.Report) error {
	s := FromDomain(r)
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
	default:
		if err := writeText(out, s); err != nil {
			return fmt.Errorf("write text report: %w", err)
		}
	}
	return nil
}

func writeText(out io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Evaluated:\t%d\n", s.Evaluated)
	fmt.Fprintf(tw, "Correct:\t%d\n", s.Correct)
	fmt.Fprintf(tw, "Accuracy:\t%s\n", formatPrecision(s.Accuracy))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CLASS\tNAME\tTRAIN\tEVALUATED\tPREDICTED\tPRECISION")
	for _, c := range s.Classes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			c.ID, c.Name, c.TrainDocuments, c.Evaluated, c.Predicted, formatPrecision(c.Precision))
	}
	if err := tw.Flush(); err != nil {
		return err //nolint:wrapcheck // wrapped by Write
	}

	if len(s.Matrix) == 0 {
		return nil
	}

	// Rows are predicted classes, columns actual classes.
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Confusion matrix (rows: predicted, columns: actual)")
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for i := range s.Matrix {
		fmt.Fprintf(tw, "%s\t", header(s.Classes, i))
	}
	fmt.Fprintln(tw)
	for i, row := range s.Matrix {
		fmt.Fprintf(tw, "%s\t", header(s.Classes, i))
		for _, n := range row {
			fmt.Fprintf(tw, "%d\t", n)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush() //nolint:wrapcheck // wrapped by Write
}

func header(classes []Class, i int) string {
	if i < len(classes) && classes[i].Name != "" {
		return classes[i].Name
	}
	return strconv.Itoa(i)
}

func formatPrecision(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 4, 64)
}

func precisionPtr(p domeval.Precision) *float64 {
	if !p.Defined {
		return nil
	}
	v := p.Value
	return &v
}
