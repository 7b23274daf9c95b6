package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	pkgretry "github.com/sensai/assist-backend/internal/pkg/retry"
	"go.uber.org/zap"
)

func testConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		BaseURL:        baseURL,
		Endpoint:       "/v1/chat/completions",
		APIKey:         "test-key",
		Model:          "gpt-4o-mini",
		MaxTokens:      400,
		RequestTimeout: 5 * time.Second,
		Retry: pkgretry.Config{
			Attempts: 2,
			Delay:    time.Millisecond,
			MaxDelay: time.Millisecond,
		},
	}
}

func testEvalRequest() *entity.AssistRequest {
	return &entity.AssistRequest{
		Mode:               entity.ModeHint,
		ProblemTitle:       "Two Sum",
		ProblemDescription: "desc",
		UserCode:           "code",
		Language:           "javascript",
	}
}

func chatResponse(t *testing.T, content string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func rubricJSON(overall float64, advice string) string {
	raw, _ := json.Marshal(map[string]any{
		"overall_score": overall,
		"metrics": map[string]float64{
			"technical_accuracy":   overall,
			"pedagogical_value":    overall,
			"clarity":              overall,
			"contextual_relevance": overall,
		},
		"mode_compliant":     true,
		"improvement_advice": advice,
	})
	return string(raw)
}

func TestEvaluate_ParsesRubric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Write(chatResponse(t, rubricJSON(2.5, "be more specific about the data structure")))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	score, err := e.Evaluate(context.Background(), testEvalRequest(), "some hint")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if score.Overall != 2.5 {
		t.Fatalf("expected overall 2.5, got %g", score.Overall)
	}
	if len(score.Dimensions) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(score.Dimensions))
	}
	if score.ImprovementAdvice != "be more specific about the data structure" {
		t.Fatalf("expected advice kept below threshold, got %q", score.ImprovementAdvice)
	}
}

func TestEvaluate_AdviceDroppedAtThreshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, rubricJSON(4.0, "stale advice")))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	score, err := e.Evaluate(context.Background(), testEvalRequest(), "a good hint")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if score.ImprovementAdvice != "" {
		t.Fatalf("passing scores must not carry advice, got %q", score.ImprovementAdvice)
	}
}

func TestEvaluate_ClampsScores(t *testing.T) {
	content := `{"overall_score":7,"metrics":{"technical_accuracy":0,"pedagogical_value":6,"clarity":3,"contextual_relevance":3},"mode_compliant":true,"improvement_advice":""}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, content))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	score, err := e.Evaluate(context.Background(), testEvalRequest(), "hint")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if score.Overall != 5 {
		t.Fatalf("expected overall clamped to 5, got %g", score.Overall)
	}
	if score.Dimensions[entity.DimTechnicalAccuracy] != 1 {
		t.Fatalf("expected dimension clamped to 1, got %g", score.Dimensions[entity.DimTechnicalAccuracy])
	}
	if score.Dimensions[entity.DimPedagogicalValue] != 5 {
		t.Fatalf("expected dimension clamped to 5, got %g", score.Dimensions[entity.DimPedagogicalValue])
	}
}

func TestEvaluate_ProseWrappedRubric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, "Here is my assessment:\n"+rubricJSON(3.5, "")+"\nLet me know."))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	score, err := e.Evaluate(context.Background(), testEvalRequest(), "hint")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if score.Overall != 3.5 {
		t.Fatalf("expected overall 3.5, got %g", score.Overall)
	}
}

func TestEvaluate_MissingDimensionFails(t *testing.T) {
	content := `{"overall_score":3,"metrics":{"technical_accuracy":3},"mode_compliant":true}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, content))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	_, err := e.Evaluate(context.Background(), testEvalRequest(), "hint")

	var evalErr *entity.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestEvaluate_GarbageContentFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatResponse(t, "I cannot evaluate this."))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	_, err := e.Evaluate(context.Background(), testEvalRequest(), "hint")

	var evalErr *entity.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
}

func TestEvaluate_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(chatResponse(t, rubricJSON(4.0, "")))
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	score, err := e.Evaluate(context.Background(), testEvalRequest(), "hint")
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if score.Overall != 4.0 {
		t.Fatalf("expected overall 4.0, got %g", score.Overall)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls.Load())
	}
}

func TestEvaluate_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewEvaluator(testConfig(srv.URL), 3.0, zap.NewNop())
	if _, err := e.Evaluate(context.Background(), testEvalRequest(), "hint"); err == nil {
		t.Fatal("expected error on 401")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls.Load())
	}
}
