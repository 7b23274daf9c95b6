package entity

import "time"

// Mode is the kind of assistance requested by the extension.
type Mode string

const (
	ModeHint Mode = "hint"
	ModeCode Mode = "code"
)

// Pipeline tier names reported back to the caller.
const (
	PipelinePrimary  = "primary"
	PipelineFallback = "fallback"
)

// Fixed rubric dimension keys produced by the evaluator.
const (
	DimTechnicalAccuracy   = "technical_accuracy"
	DimPedagogicalValue    = "pedagogical_value"
	DimClarity             = "clarity"
	DimContextualRelevance = "contextual_relevance"
)

// RubricDimensions lists the dimension keys every evaluation must carry.
var RubricDimensions = []string{
	DimTechnicalAccuracy,
	DimPedagogicalValue,
	DimClarity,
	DimContextualRelevance,
}

// AssistRequest is the normalized inbound request. It is built once per call
// by the validator and never mutated afterwards.
type AssistRequest struct {
	Mode               Mode
	ProblemTitle       string
	ProblemDescription string
	UserCode           string
	Language           string
	UserID             string
}

// PipelineOptions are the per-request pipeline knobs, resolved from the
// request body with config defaults applied.
type PipelineOptions struct {
	UseEvaluation bool
	MaxAttempts   int
}

// GenerationResult is the terminal artifact of one pipeline run.
type GenerationResult struct {
	Text         string
	PipelineUsed string
	Attempts     int
}

// EvaluationScore is produced fresh per evaluation call. A later attempt
// replaces it wholesale; scores are never merged.
type EvaluationScore struct {
	Overall           float64
	Dimensions        map[string]float64
	ModeCompliant     bool
	ImprovementAdvice string
}

// DimensionMean returns the arithmetic mean of the rubric dimensions. The
// evaluator's holistic Overall is not required to match it; callers track
// both and reconcile neither.
func (s *EvaluationScore) DimensionMean() float64 {
	if len(s.Dimensions) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Dimensions {
		sum += v
	}
	return sum / float64(len(s.Dimensions))
}

// PipelineOutcome is the value returned to the caller.
type PipelineOutcome struct {
	Result         GenerationResult
	Score          *EvaluationScore
	FellBack       bool
	FallbackReason string
}

// UsageRecord is the per-request accounting row persisted best-effort after a
// pipeline run. Not consulted by the pipeline itself.
type UsageRecord struct {
	ID        string
	UserID    string
	Mode      Mode
	Pipeline  string
	Attempts  int
	Score     *float64
	FellBack  bool
	CreatedAt time.Time
}
