package validator

import (
	"fmt"
	"strings"

	"github.com/sensai/assist-backend/internal/entity"
)

const defaultLanguage = "javascript"

// Validator normalizes inbound process requests. Validation happens once,
// before the pipeline runs; the pipeline never re-validates.
type Validator struct {
	maxAttempts int
}

func New(maxAttempts int) *Validator {
	return &Validator{maxAttempts: maxAttempts}
}

// ValidateProcess checks the raw request shape and reports every field-level
// issue at once.
func (v *Validator) ValidateProcess(req *entity.ProcessRequest) error {
	var issues []string

	switch entity.Mode(req.Mode) {
	case entity.ModeHint, entity.ModeCode:
	default:
		issues = append(issues, fmt.Sprintf("mode: %v (got %q)", entity.ErrInvalidMode, req.Mode))
	}

	if strings.TrimSpace(req.Problem.Title) == "" {
		issues = append(issues, fmt.Sprintf("problem.title: %v", entity.ErrMissingField))
	}
	if strings.TrimSpace(req.Problem.Description) == "" {
		issues = append(issues, fmt.Sprintf("problem.description: %v", entity.ErrMissingField))
	}
	if req.MaxRetries != nil && *req.MaxRetries < 0 {
		issues = append(issues, "max_retries: must not be negative")
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrInvalidRequest, strings.Join(issues, "; "))
	}

	return nil
}

// Normalize builds the immutable AssistRequest and resolves pipeline options.
// Call only after ValidateProcess succeeded.
func (v *Validator) Normalize(req *entity.ProcessRequest, defaults entity.PipelineOptions) (*entity.AssistRequest, entity.PipelineOptions) {
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = defaultLanguage
	}

	assist := &entity.AssistRequest{
		Mode:               entity.Mode(req.Mode),
		ProblemTitle:       strings.TrimSpace(req.Problem.Title),
		ProblemDescription: strings.TrimSpace(req.Problem.Description),
		UserCode:           req.Problem.Code,
		Language:           language,
		UserID:             req.UserID,
	}

	opts := entity.PipelineOptions{
		UseEvaluation: defaults.UseEvaluation,
		MaxAttempts:   defaults.MaxAttempts,
	}
	if req.UseEvaluation != nil {
		opts.UseEvaluation = *req.UseEvaluation
	}

	if req.MaxRetries != nil {
		retries := *req.MaxRetries
		if retries > v.maxAttempts-1 {
			retries = v.maxAttempts - 1
		}
		opts.MaxAttempts = retries + 1
	}

	// Without evaluation there is nothing to gate on: a single attempt.
	if !opts.UseEvaluation {
		opts.MaxAttempts = 1
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	return assist, opts
}
