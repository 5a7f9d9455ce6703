package newsbayes

import "github.com/kailas-cloud/newsbayes/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNoClasses       = domain.ErrNoClasses
	ErrLabelOutOfRange = domain.ErrLabelOutOfRange
	ErrInvalidLabel    = domain.ErrInvalidLabel
	ErrMissingColumn   = domain.ErrMissingColumn
	ErrEmptyDocument   = domain.ErrEmptyDocument
	ErrModelNotTrained = domain.ErrModelNotTrained
)
