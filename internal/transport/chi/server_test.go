package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/newsbayes/internal/domain/document"
	"github.com/kailas-cloud/newsbayes/internal/domain/model"
	"github.com/kailas-cloud/newsbayes/internal/metrics"
	"github.com/kailas-cloud/newsbayes/internal/transport/report"
	classificationuc "github.com/kailas-cloud/newsbayes/internal/usecase/classification"
	evaluationuc "github.com/kailas-cloud/newsbayes/internal/usecase/evaluation"
	healthuc "github.com/kailas-cloud/newsbayes/internal/usecase/health"
)

type testEnv struct {
	model      *model.Model
	evaluation *evaluationuc.Service
	router     http.Handler
}

func newModel(t *testing.T, train bool) *model.Model {
	t.Helper()
	m, err := model.New([]string{"Sports", "Business"})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	if !train {
		return m
	}
	err = m.Train([]document.Document{
		document.New(0, "Goal", "late goal wins the match"),
		document.New(0, "Match", "team wins"),
		document.New(1, "Shares", "bank shares fall"),
		document.New(1, "Bank", "profit and shares"),
	})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return m
}

func newTestEnv(t *testing.T, m *model.Model, apiKeys ...string) testEnv {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}

	evalSvc := evaluationuc.New(m, collector)
	server := NewServer(
		classificationuc.New(m),
		evalSvc,
		healthuc.New(m, evalSvc),
		reg,
		zap.NewNop(),
	)
	return testEnv{
		model:      m,
		evaluation: evalSvc,
		router:     NewRouter(server, apiKeys, collector.Middleware()),
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestClassify_OK(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	rr := do(t, env.router, "POST", "/v1/classify", `{"title":"Bank shares","description":"profit"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	resp := decode[ClassifyResponse](t, rr)
	if resp.ClassID != 1 || resp.ClassName != "Business" {
		t.Errorf("got class %d (%s), want 1 (Business)", resp.ClassID, resp.ClassName)
	}
	if resp.Score <= 0 || resp.LogScore == nil {
		t.Errorf("expected positive score and finite log score, got %v / %v", resp.Score, resp.LogScore)
	}
	if len(resp.Posteriors) != 2 {
		t.Fatalf("posteriors = %d, want 2", len(resp.Posteriors))
	}
	// "profit" never appears in Sports
	if resp.Posteriors[0].ClassName != "Sports" || resp.Posteriors[0].LogScore != nil {
		t.Errorf("sports posterior = %+v, want null log score", resp.Posteriors[0])
	}
}

func TestClassify_UnseenWord(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	rr := do(t, env.router, "POST", "/v1/classify", `{"title":"Quarterly","description":"bank shares"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	resp := decode[ClassifyResponse](t, rr)
	if resp.ClassID != 0 || resp.Score != 0 || resp.LogScore != nil {
		t.Errorf("expected collapse to class 0 with zero score, got %+v", resp)
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name     string
		trained  bool
		body     string
		wantCode int
		wantErr  ErrorCode
	}{
		{"invalid json", true, `{"title":`, http.StatusBadRequest, ErrorCodeBadRequest},
		{"empty document", true, `{"title":" ","description":""}`, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"untrained model", false, `{"title":"goal"}`, http.StatusServiceUnavailable, ErrorCodeModelNotTrained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, newModel(t, tt.trained))

			rr := do(t, env.router, "POST", "/v1/classify", tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if got := decode[ErrorResponse](t, rr); got.Code != tt.wantErr {
				t.Errorf("code = %s, want %s", got.Code, tt.wantErr)
			}
		})
	}
}

func TestListClasses(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	rr := do(t, env.router, "GET", "/v1/classes", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	resp := decode[ClassListResponse](t, rr)
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	sports := resp.Items[0]
	if sports.Name != "Sports" || sports.Documents != 2 || sports.TotalWords != 9 {
		t.Errorf("unexpected sports class: %+v", sports)
	}
}

func TestGetReport(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	rr := do(t, env.router, "GET", "/v1/report", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("before evaluation: status = %d, want 404", rr.Code)
	}
	if got := decode[ErrorResponse](t, rr); got.Code != ErrorCodeReportNotFound {
		t.Errorf("code = %s, want %s", got.Code, ErrorCodeReportNotFound)
	}

	_, err := env.evaluation.Evaluate(context.Background(), []document.Document{
		document.New(0, "team", "match"),
		document.New(1, "bank", "profit"),
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	rr = do(t, env.router, "GET", "/v1/report", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("after evaluation: status = %d", rr.Code)
	}
	s := decode[report.Summary](t, rr)
	if s.Evaluated != 2 || s.Accuracy == nil || *s.Accuracy != 1 {
		t.Errorf("unexpected report: %+v", s)
	}
}

func TestGetReport_NoEvaluationService(t *testing.T) {
	m := newModel(t, true)
	server := NewServer(classificationuc.New(m), nil, healthuc.New(m, nil), prometheus.NewRegistry(), zap.NewNop())
	router := NewRouter(server, nil, nil)

	rr := do(t, router, "GET", "/v1/report", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		trained    bool
		wantCode   int
		wantStatus string
	}{
		{"trained without report", true, http.StatusOK, "degraded"},
		{"untrained", false, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, newModel(t, tt.trained))

			rr := do(t, env.router, "GET", "/health", "")
			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			resp := decode[HealthResponse](t, rr)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if _, ok := resp.Checks["model"]; !ok {
				t.Error("expected model check")
			}
			if resp.Version == "" {
				t.Error("expected version")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	do(t, env.router, "GET", "/v1/classes", "")
	rr := do(t, env.router, "GET", "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	want := `newsbayes_http_requests_total{method="GET",path="/v1/classes",status="200"} 1`
	if !strings.Contains(rr.Body.String(), want) {
		t.Errorf("metrics output missing %q", want)
	}
}

func TestRouter_Auth(t *testing.T) {
	env := newTestEnv(t, newModel(t, true), "secret")

	if rr := do(t, env.router, "GET", "/v1/classes", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want 401", rr.Code)
	}
	if rr := do(t, env.router, "GET", "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health without token: status = %d, want 200", rr.Code)
	}

	req := httptest.NewRequest("GET", "/v1/classes", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", rr.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t, newModel(t, true))

	rr := do(t, env.router, "GET", "/v1/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestSafeDomainMessage_HidesInternals(t *testing.T) {
	if got := safeDomainMessage(context.DeadlineExceeded); got != "internal error" {
		t.Errorf("got %q, want 'internal error'", got)
	}
}
