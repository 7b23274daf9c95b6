package assist

import (
	"context"

	"github.com/sensai/assist-backend/internal/entity"
)

// Generator produces an assistance text for a problem. feedback carries the
// prior attempt's improvement advice; implementations that are single-shot
// (the fallback tier) may ignore it.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req *entity.AssistRequest, feedback string) (string, error)
}

// Evaluator scores a generated response against the fixed rubric.
type Evaluator interface {
	Evaluate(ctx context.Context, req *entity.AssistRequest, responseText string) (*entity.EvaluationScore, error)
}

// UsageRecorder persists per-request accounting rows, best effort.
type UsageRecorder interface {
	RecordOutcome(ctx context.Context, rec *entity.UsageRecord) error
}
