package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClasses signals a model or dataset without any class.
	ErrNoClasses = errors.New("no classes")
	// ErrLabelOutOfRange signals a class index outside the known class set.
	ErrLabelOutOfRange = errors.New("label out of range")
	// ErrInvalidLabel signals a source label that is not a usable class number.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrMissingColumn signals a dataset table without a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyDocument signals a document with neither title nor description.
	ErrEmptyDocument = errors.New("empty document")

	// ErrModelNotTrained signals classification against a model with no training documents.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrReportNotFound signals that no evaluation report is available.
	ErrReportNotFound = errors.New("report not found")
)

// LabelOutOfRangeError wraps ErrLabelOutOfRange with the offending class and the class count.
type LabelOutOfRangeError struct {
	Class   ClassID
	Classes int
}

func (e *LabelOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: class %d not in [0, %d)", ErrLabelOutOfRange.Error(), int(e.Class), e.Classes)
}

func (e *LabelOutOfRangeError) Unwrap() error { return ErrLabelOutOfRange }

// NewLabelOutOfRange creates a label out of range error.
func NewLabelOutOfRange(class ClassID, classes int) error {
	return &LabelOutOfRangeError{Class: class, Classes: classes}
}
