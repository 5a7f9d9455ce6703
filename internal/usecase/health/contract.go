package health

import "context"

// ModelChecker reports whether the model has been trained.
type ModelChecker interface {
	TotalDocuments() int
}

// ReportChecker reports whether an evaluation report is available.
type ReportChecker interface {
	HasReport(ctx context.Context) bool
}
