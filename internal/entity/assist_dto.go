package entity

// ProblemDTO carries the already-extracted problem text from the extension.
type ProblemDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// ProcessRequest is the body of POST /process. UseEvaluation and MaxRetries
// are pointers so an absent field falls back to server configuration instead
// of the zero value.
type ProcessRequest struct {
	Problem       ProblemDTO `json:"problem"`
	Mode          string     `json:"mode"`
	Language      string     `json:"language"`
	UseEvaluation *bool      `json:"use_evaluation,omitempty"`
	MaxRetries    *int       `json:"max_retries,omitempty"`
	UserID        string     `json:"user_id"`
}

// ProcessResponse is the success body of POST /process.
type ProcessResponse struct {
	Success         bool     `json:"success"`
	Response        string   `json:"response"`
	Pipeline        string   `json:"pipeline"`
	Attempts        int      `json:"attempts"`
	EvaluationScore *float64 `json:"evaluation_score,omitempty"`
	FellBack        bool     `json:"fell_back"`
	FallbackReason  string   `json:"fallback_reason,omitempty"`
}

// ErrorResponse is the error body shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"detail"`
}
