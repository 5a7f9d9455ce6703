package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain"
	"github.com/kailas-cloud/newsbayes/internal/transport/report"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	evaluationuc "github.com/kailas-cloud/newsbayes/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
	"github.com/kailas-cloud/newsbayes/internal/version"
)

// maxBodyBytes caps the classify request body.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the classifier over HTTP.
type Server struct {
	classifier    *classificationuc.Service
	evaluation    *evaluationuc.Service
	health        *healthuc.Service
	gatherer      prometheus.Gatherer
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
// evaluation can be nil when no held-out set is configured.
func NewServer(
	classifier *classificationuc.Service,
	evaluation *evaluationuc.Service,
	health *healthuc.Service,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	s := &Server{
		classifier: classifier,
		evaluation: evaluation,
		health:     health,
		gatherer:   gatherer,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyDocument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrReportNotFound, http.StatusNotFound, ErrorCodeReportNotFound),
		sentinelHandler(domain.ErrModelNotTrained, http.StatusServiceUnavailable, ErrorCodeModelNotTrained),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/classify", s.Classify)
	r.Get("/v1/classes", s.ListClasses)
	r.Get("/v1/report", s.GetReport)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Classify handles POST /v1/classify.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.classifier.Classify(r.Context(), req.Title, req.Description)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, classifyToResponse(res))
}

// ListClasses handles GET /v1/classes.
func (s *Server) ListClasses(w http.ResponseWriter, _ *http.Request) {
	classes := s.classifier.Classes()
	items := make([]ClassResponse, len(classes))
	for i, c := range classes {
		items[i] = ClassResponse{
			ID:         int(c.Class),
			Name:       c.Name,
			Documents:  c.Documents,
			TotalWords: c.TotalWords,
			Vocabulary: c.Vocabulary,
		}
	}
	writeJSON(w, http.StatusOK, ClassListResponse{Items: items})
}

// GetReport handles GET /v1/report.
func (s *Server) GetReport(w http.ResponseWriter, _ *http.Request) {
	if s.evaluation == nil {
		s.handleDomainError(w, domain.ErrReportNotFound)
		return
	}

	rep, err := s.evaluation.Last()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report.FromDomain(rep))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	checks := make(map[string]string, len(rep.Checks))
	for k, v := range rep.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if rep.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(rep.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyDocument,
		domain.ErrReportNotFound,
		domain.ErrModelNotTrained,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func classifyToResponse(res classificationuc.Result) ClassifyResponse {
	posteriors := make([]Posterior, len(res.Posteriors))
	for i, p := range res.Posteriors {
		posteriors[i] = Posterior{
			ClassID:   int(p.Class),
			ClassName: p.Name,
			Score:     p.Score,
			LogScore:  finite(p.LogScore),
		}
	}
	return ClassifyResponse{
		ClassID:    int(res.Class),
		ClassName:  res.Name,
		Score:      res.Score,
		LogScore:   finite(res.LogScore),
		Posteriors: posteriors,
	}
}

// finite maps -Inf (a class zeroed by an unseen word) to nil; JSON has no infinity.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
