// Package openai implements the response evaluator on the chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgretry "github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"github.com/sensai/assist-backend/internal/pkg/llmtext"
	pkghttp "github.com/sensai/assist-backend/pkg/http"
	"go.uber.org/zap"
)

const providerName = "openai"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// rubricPayload is the model's scoring JSON before adaptation.
type rubricPayload struct {
	OverallScore      *float64           `json:"overall_score"`
	Metrics           map[string]float64 `json:"metrics"`
	ModeCompliant     *bool              `json:"mode_compliant"`
	ImprovementAdvice string             `json:"improvement_advice"`
}

// Evaluator scores generated responses against a fixed four-dimension rubric.
// Every failure path, from transport to malformed rubric JSON, surfaces as
// *entity.EvaluationError so the quality loop can degrade gracefully.
type Evaluator struct {
	connector *pkghttp.Connector
	cfg       config.OpenAIConfig
	threshold float64
	logger    *zap.Logger
}

func NewEvaluator(cfg config.OpenAIConfig, threshold float64, logger *zap.Logger) *Evaluator {
	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{BaseURL: cfg.BaseURL, Logger: logger},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithAuthToken(cfg.APIKey),
		pkghttp.WithRequestLogging(),
	)
	return &Evaluator{
		connector: connector,
		cfg:       cfg,
		threshold: threshold,
		logger:    logger,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, req *entity.AssistRequest, responseText string) (*entity.EvaluationScore, error) {
	body := chatCompletionRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: evaluatorSystemPrompt},
			{Role: "user", Content: buildEvaluationPrompt(req, responseText)},
		},
		Temperature:    0,
		MaxTokens:      e.cfg.MaxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	opts := append(e.cfg.Retry.ToOptions(ctx), pkgretry.RetryIf(isTransient))

	var resp chatCompletionResponse
	err := pkgretry.Do(func() error {
		resp = chatCompletionResponse{}
		return e.connector.DoRequest(ctx, http.MethodPost, e.cfg.Endpoint, body, &resp)
	}, opts...)
	if err != nil {
		return nil, &entity.EvaluationError{Provider: providerName, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &entity.EvaluationError{Provider: providerName, Err: fmt.Errorf("no choices in response")}
	}

	score, err := e.adaptRubric(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, &entity.EvaluationError{Provider: providerName, Err: err}
	}

	ctxzap.Info(ctx, "evaluation complete",
		zap.Float64("overall", score.Overall),
		zap.Bool("mode_compliant", score.ModeCompliant),
	)
	return score, nil
}

// adaptRubric converts the model's free-form rubric JSON into the internal
// score shape: fixed dimension keys, every value clamped to [1,5].
func (e *Evaluator) adaptRubric(content string) (*entity.EvaluationScore, error) {
	raw, ok := llmtext.ExtractJSONObject(content)
	if !ok {
		return nil, errors.New("no rubric object in evaluator output")
	}

	var payload rubricPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("malformed rubric JSON: %w", err)
	}
	if payload.OverallScore == nil {
		return nil, errors.New("rubric is missing overall_score")
	}

	score := &entity.EvaluationScore{
		Overall:       clampScore(*payload.OverallScore),
		Dimensions:    make(map[string]float64, len(entity.RubricDimensions)),
		ModeCompliant: payload.ModeCompliant == nil || *payload.ModeCompliant,
	}
	for _, dim := range entity.RubricDimensions {
		v, ok := payload.Metrics[dim]
		if !ok {
			return nil, fmt.Errorf("rubric is missing dimension %q", dim)
		}
		score.Dimensions[dim] = clampScore(v)
	}

	// Advice only matters for sub-threshold scores; drop it otherwise so a
	// passing score never carries stale feedback.
	if score.Overall < e.threshold {
		score.ImprovementAdvice = strings.TrimSpace(payload.ImprovementAdvice)
	}

	return score, nil
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// isTransient limits backoff to failures a retry can plausibly cure:
// network-level errors, rate limits and upstream 5xx.
func isTransient(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return false
}
