package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model  ModelChecker
	report ReportChecker
}

// New creates a Service. report can be nil when no held-out set is configured.
func New(model ModelChecker, report ReportChecker) *Service {
	return &Service{model: model, report: report}
}

// Check runs health checks against all components.
// An untrained model cannot serve anything, so it makes the service unhealthy;
// a missing report only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	modelOK := s.model != nil && s.model.TotalDocuments() > 0
	if modelOK {
		checks["model"] = CheckOK
	} else {
		checks["model"] = CheckError
	}

	status := Healthy
	if s.report != nil {
		if s.report.HasReport(ctx) {
			checks["evaluation"] = CheckOK
		} else {
			checks["evaluation"] = CheckError
			status = Degraded
		}
	}

	if !modelOK {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}
