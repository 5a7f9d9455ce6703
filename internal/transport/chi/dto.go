package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeModelNotTrained  ErrorCode = "model_not_trained"
	ErrorCodeReportNotFound   ErrorCode = "report_not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ClassifyResponse is the predicted class with every class posterior.
type ClassifyResponse struct {
	ClassID    int         `json:"class_id"`
	ClassName  string      `json:"class_name"`
	Score      float64     `json:"score"`
	LogScore   *float64    `json:"log_score"` // null when every word is unseen
	Posteriors []Posterior `json:"posteriors"`
}

// Posterior is the unnormalized score of one class.
type Posterior struct {
	ClassID   int      `json:"class_id"`
	ClassName string   `json:"class_name"`
	Score     float64  `json:"score"`
	LogScore  *float64 `json:"log_score"`
}

// ClassResponse describes one class of the trained model.
type ClassResponse struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Documents  int    `json:"documents"`
	TotalWords int    `json:"total_words"`
	Vocabulary int    `json:"vocabulary"`
}

// ClassListResponse is the body of GET /v1/classes.
type ClassListResponse struct {
	Items []ClassResponse `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
