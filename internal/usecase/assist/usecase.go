package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

// AssistUsecase routes a normalized request through the tiered pipeline: the
// primary generator (optionally evaluated, quality-gated) under one overall
// timeout, with a single-attempt unevaluated fallback when the primary tier
// errors, times out or is disabled.
type AssistUsecase struct {
	primaryRetrier  *Retrier
	fallbackRetrier *Retrier
	usage           UsageRecorder
	cfg             config.PipelineConfig
	logger          *zap.Logger
}

// NewUsecase creates the assist use case. usage may be nil when accounting is
// disabled.
func NewUsecase(
	primary Generator,
	fallback Generator,
	evaluator Evaluator,
	usage UsageRecorder,
	cfg config.PipelineConfig,
	logger *zap.Logger,
) *AssistUsecase {
	uc := &AssistUsecase{
		usage:  usage,
		cfg:    cfg,
		logger: logger,
	}
	if primary != nil {
		uc.primaryRetrier = NewRetrier(primary, evaluator, cfg.ScoreThreshold, entity.PipelinePrimary)
	}
	if fallback != nil {
		uc.fallbackRetrier = NewRetrier(fallback, nil, cfg.ScoreThreshold, entity.PipelineFallback)
	}
	return uc
}

// Process runs one pipeline pass and returns its outcome. The only error it
// returns besides context cancellation is entity.ErrAssistUnavailable, raised
// when both tiers failed.
func (uc *AssistUsecase) Process(ctx context.Context, req *entity.AssistRequest, opts entity.PipelineOptions) (*entity.PipelineOutcome, error) {
	var (
		outcome *entity.PipelineOutcome
		err     error
	)

	switch {
	case !uc.cfg.PrimaryEnabled || uc.primaryRetrier == nil:
		outcome, err = uc.runFallback(ctx, req, "primary pipeline disabled")
	default:
		outcome, err = uc.runPrimary(ctx, req, opts)
		if err != nil {
			// The caller went away: nothing left to answer.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			outcome, err = uc.runFallback(ctx, req, fallbackReason(err))
		}
	}
	if err != nil {
		return nil, err
	}

	uc.recordUsage(ctx, req, outcome)
	return outcome, nil
}

type primaryResult struct {
	result entity.GenerationResult
	score  *entity.EvaluationScore
	err    error
}

// runPrimary races the retry loop against the overall wall-clock timeout.
// Losing the race cancels the in-flight upstream call via context; whatever
// the provider still produces is discarded.
func (uc *AssistUsecase) runPrimary(ctx context.Context, req *entity.AssistRequest, opts entity.PipelineOptions) (*entity.PipelineOutcome, error) {
	pctx, cancel := context.WithTimeout(ctx, uc.cfg.OverallTimeout)
	defer cancel()

	done := make(chan primaryResult, 1)
	go func() {
		result, score, err := uc.primaryRetrier.Run(pctx, req, opts)
		done <- primaryResult{result: result, score: score, err: err}
	}()

	select {
	case <-pctx.Done():
		return nil, pctx.Err()
	case pr := <-done:
		if pr.err != nil {
			return nil, pr.err
		}
		return &entity.PipelineOutcome{Result: pr.result, Score: pr.score}, nil
	}
}

// runFallback is single-attempt, unevaluated and never cascades further.
func (uc *AssistUsecase) runFallback(ctx context.Context, req *entity.AssistRequest, reason string) (*entity.PipelineOutcome, error) {
	if uc.fallbackRetrier == nil {
		return nil, fmt.Errorf("%w: no fallback generator configured (%s)", entity.ErrAssistUnavailable, reason)
	}

	ctxzap.Warn(ctx, "falling back to secondary pipeline", zap.String("reason", reason))

	fctx, cancel := context.WithTimeout(ctx, uc.cfg.OverallTimeout)
	defer cancel()

	result, _, err := uc.fallbackRetrier.Run(fctx, req, entity.PipelineOptions{UseEvaluation: false, MaxAttempts: 1})
	if err != nil {
		return nil, fmt.Errorf("%w: %s; fallback failed: %v", entity.ErrAssistUnavailable, reason, err)
	}

	return &entity.PipelineOutcome{
		Result:         result,
		FellBack:       true,
		FallbackReason: reason,
	}, nil
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "primary pipeline timeout"
	}
	return fmt.Sprintf("primary pipeline unavailable: %v", err)
}

// recordUsage persists the outcome best effort; accounting never fails a
// request.
func (uc *AssistUsecase) recordUsage(ctx context.Context, req *entity.AssistRequest, outcome *entity.PipelineOutcome) {
	if uc.usage == nil {
		return
	}

	rec := &entity.UsageRecord{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Mode:      req.Mode,
		Pipeline:  outcome.Result.PipelineUsed,
		Attempts:  outcome.Result.Attempts,
		FellBack:  outcome.FellBack,
		CreatedAt: time.Now().UTC(),
	}
	if outcome.Score != nil {
		score := outcome.Score.Overall
		rec.Score = &score
	}

	if err := uc.usage.RecordOutcome(ctx, rec); err != nil {
		ctxzap.Warn(ctx, "failed to record usage outcome", zap.Error(err))
	}
}
