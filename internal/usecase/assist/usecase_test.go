package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

type fakeRecorder struct {
	recs []*entity.UsageRecord
}

func (r *fakeRecorder) RecordOutcome(_ context.Context, rec *entity.UsageRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func testPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		UseEvaluation:  true,
		MaxAttempts:    3,
		ScoreThreshold: 3.0,
		OverallTimeout: 2 * time.Second,
		PrimaryEnabled: true,
	}
}

func evalOpts() entity.PipelineOptions {
	return entity.PipelineOptions{UseEvaluation: true, MaxAttempts: 3}
}

func TestProcess_PrimarySuccess(t *testing.T) {
	primary := &fakeGenerator{name: "primary", texts: []string{"hint text"}}
	fallback := &fakeGenerator{name: "fallback"}
	eval := &fakeEvaluator{scores: []*entity.EvaluationScore{scoreOf(4.5, "")}}
	uc := NewUsecase(primary, fallback, eval, nil, testPipelineConfig(), zap.NewNop())

	outcome, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if outcome.FellBack {
		t.Fatal("successful primary run must not fall back")
	}
	if outcome.Result.PipelineUsed != entity.PipelinePrimary {
		t.Fatalf("expected primary pipeline, got %q", outcome.Result.PipelineUsed)
	}
	if outcome.Score == nil || outcome.Score.Overall != 4.5 {
		t.Fatalf("expected score 4.5, got %+v", outcome.Score)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must stay untouched, got %d calls", fallback.calls)
	}
}

func TestProcess_LowScoreNeverFallsBack(t *testing.T) {
	primary := &fakeGenerator{name: "primary"}
	fallback := &fakeGenerator{name: "fallback"}
	eval := &fakeEvaluator{scores: []*entity.EvaluationScore{
		scoreOf(1.5, "a"), scoreOf(1.5, "b"), scoreOf(1.5, "c"),
	}}
	uc := NewUsecase(primary, fallback, eval, nil, testPipelineConfig(), zap.NewNop())

	outcome, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if outcome.FellBack {
		t.Fatal("low quality is not a fallback condition")
	}
	if outcome.Result.Attempts != 3 {
		t.Fatalf("expected exhausted attempts, got %d", outcome.Result.Attempts)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must stay untouched, got %d calls", fallback.calls)
	}
}

func TestProcess_FallbackOnGenerationError(t *testing.T) {
	primary := &fakeGenerator{name: "primary", errs: []error{
		&entity.GenerationError{Provider: "anthropic", Err: errors.New("503")},
	}}
	fallback := &fakeGenerator{name: "fallback", texts: []string{"fallback text"}}
	eval := &fakeEvaluator{}
	uc := NewUsecase(primary, fallback, eval, nil, testPipelineConfig(), zap.NewNop())

	outcome, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if !outcome.FellBack {
		t.Fatal("expected fallback after a generation error")
	}
	if outcome.Result.PipelineUsed != entity.PipelineFallback {
		t.Fatalf("expected fallback pipeline, got %q", outcome.Result.PipelineUsed)
	}
	if outcome.Result.Attempts != 1 {
		t.Fatalf("fallback is single-attempt, got %d", outcome.Result.Attempts)
	}
	if outcome.Score != nil {
		t.Fatalf("fallback results are never scored, got %+v", outcome.Score)
	}
	if !strings.Contains(outcome.FallbackReason, "primary pipeline unavailable") {
		t.Fatalf("unexpected fallback reason %q", outcome.FallbackReason)
	}
}

func TestProcess_FallbackOnTimeout(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.OverallTimeout = 30 * time.Millisecond

	primary := &fakeGenerator{name: "primary", delay: 500 * time.Millisecond}
	fallback := &fakeGenerator{name: "fallback", texts: []string{"fast answer"}}
	uc := NewUsecase(primary, fallback, &fakeEvaluator{}, nil, cfg, zap.NewNop())

	outcome, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if !outcome.FellBack {
		t.Fatal("expected fallback after a primary timeout")
	}
	if outcome.FallbackReason != "primary pipeline timeout" {
		t.Fatalf("unexpected fallback reason %q", outcome.FallbackReason)
	}
	if outcome.Result.Attempts != 1 || outcome.Score != nil {
		t.Fatalf("fallback must be one unscored attempt, got %+v", outcome)
	}
}

func TestProcess_PrimaryDisabled(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.PrimaryEnabled = false

	primary := &fakeGenerator{name: "primary"}
	fallback := &fakeGenerator{name: "fallback", texts: []string{"fallback text"}}
	uc := NewUsecase(primary, fallback, &fakeEvaluator{}, nil, cfg, zap.NewNop())

	outcome, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if primary.calls != 0 {
		t.Fatalf("disabled primary must not be called, got %d calls", primary.calls)
	}
	if !outcome.FellBack || outcome.FallbackReason != "primary pipeline disabled" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestProcess_BothTiersFail(t *testing.T) {
	primary := &fakeGenerator{name: "primary", errs: []error{
		&entity.GenerationError{Provider: "anthropic", Err: errors.New("down")},
	}}
	fallback := &fakeGenerator{name: "fallback", errs: []error{
		&entity.GenerationError{Provider: "gemini", Err: errors.New("also down")},
	}}
	uc := NewUsecase(primary, fallback, &fakeEvaluator{}, nil, testPipelineConfig(), zap.NewNop())

	_, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if !errors.Is(err, entity.ErrAssistUnavailable) {
		t.Fatalf("expected ErrAssistUnavailable, got %v", err)
	}
}

func TestProcess_NoFallbackConfigured(t *testing.T) {
	primary := &fakeGenerator{name: "primary", errs: []error{
		&entity.GenerationError{Provider: "anthropic", Err: errors.New("down")},
	}}
	uc := NewUsecase(primary, nil, &fakeEvaluator{}, nil, testPipelineConfig(), zap.NewNop())

	_, err := uc.Process(context.Background(), testRequest(), evalOpts())
	if !errors.Is(err, entity.ErrAssistUnavailable) {
		t.Fatalf("expected ErrAssistUnavailable, got %v", err)
	}
}

func TestProcess_RecordsUsage(t *testing.T) {
	primary := &fakeGenerator{name: "primary", texts: []string{"hint"}}
	eval := &fakeEvaluator{scores: []*entity.EvaluationScore{scoreOf(4.0, "")}}
	recorder := &fakeRecorder{}
	uc := NewUsecase(primary, nil, eval, recorder, testPipelineConfig(), zap.NewNop())

	req := testRequest()
	req.UserID = "user-42"

	if _, err := uc.Process(context.Background(), req, evalOpts()); err != nil {
		t.Fatalf("Process error: %v", err)
	}

	if len(recorder.recs) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(recorder.recs))
	}
	rec := recorder.recs[0]
	if rec.ID == "" || rec.UserID != "user-42" || rec.Pipeline != entity.PipelinePrimary {
		t.Fatalf("unexpected usage record %+v", rec)
	}
	if rec.Score == nil || *rec.Score != 4.0 {
		t.Fatalf("expected recorded score 4.0, got %+v", rec.Score)
	}
}
