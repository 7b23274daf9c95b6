package assist

import (
	"context"
	"math"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

// genericAdvice is substituted when the evaluator scored below threshold but
// returned no concrete advice, so a retry always carries non-empty feedback.
const genericAdvice = "Address the weakest rubric areas and follow the requested mode exactly: a hint must not contain a full solution, code must contain a code block."

// Retrier drives the generate→score loop for one pipeline tier.
//
// States: Attempting → Scoring → {Accepted | Retrying → Attempting | Exhausted}.
// Quality problems (low score) are retried with feedback; generator failures
// propagate untouched so the router can decide on fallback; evaluator
// failures degrade to an unscored accept.
type Retrier struct {
	generator Generator
	evaluator Evaluator
	threshold float64
	pipeline  string
}

func NewRetrier(generator Generator, evaluator Evaluator, threshold float64, pipeline string) *Retrier {
	return &Retrier{
		generator: generator,
		evaluator: evaluator,
		threshold: threshold,
		pipeline:  pipeline,
	}
}

// Run executes up to opts.MaxAttempts generation attempts and returns the last
// result together with its score, if one was produced. A low final score never
// discards the result: the quality gate bounds effort, not availability.
func (r *Retrier) Run(ctx context.Context, req *entity.AssistRequest, opts entity.PipelineOptions) (entity.GenerationResult, *entity.EvaluationScore, error) {
	maxAttempts := opts.MaxAttempts
	if !opts.UseEvaluation || r.evaluator == nil {
		maxAttempts = 1
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	feedback := ""
	for attempt := 1; ; attempt++ {
		text, err := r.generator.Generate(ctx, req, feedback)
		if err != nil {
			return entity.GenerationResult{}, nil, err
		}

		result := entity.GenerationResult{
			Text:         text,
			PipelineUsed: r.pipeline,
			Attempts:     attempt,
		}

		if !opts.UseEvaluation || r.evaluator == nil {
			return result, nil, nil
		}

		score, err := r.evaluator.Evaluate(ctx, req, text)
		if err != nil {
			ctxzap.Warn(ctx, "evaluation failed, accepting unscored result",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return result, nil, nil
		}

		if mean := score.DimensionMean(); mean > 0 && math.Abs(mean-score.Overall) > 1.0 {
			ctxzap.Warn(ctx, "holistic score diverges from dimension mean",
				zap.Float64("overall", score.Overall),
				zap.Float64("dimension_mean", mean),
			)
		}

		// A score exactly at the threshold passes.
		if score.Overall >= r.threshold || attempt == maxAttempts {
			return result, score, nil
		}

		ctxzap.Info(ctx, "score below threshold, retrying with feedback",
			zap.Int("attempt", attempt),
			zap.Float64("score", score.Overall),
			zap.Float64("threshold", r.threshold),
		)

		feedback = strings.TrimSpace(score.ImprovementAdvice)
		if feedback == "" {
			feedback = genericAdvice
		}
	}
}
