package openai

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

// MockEvaluator is the deterministic stand-in used when ENABLE_MOCKS is set.
// It applies the mode rules mechanically so handler-level flows stay testable.
type MockEvaluator struct {
	logger *zap.Logger
}

func NewMockEvaluator(logger *zap.Logger) *MockEvaluator {
	return &MockEvaluator{logger: logger}
}

func (m *MockEvaluator) Evaluate(ctx context.Context, req *entity.AssistRequest, responseText string) (*entity.EvaluationScore, error) {
	ctxzap.Info(ctx, "[MOCK] evaluating response", zap.String("mode", string(req.Mode)))

	hasCodeBlock := strings.Contains(responseText, "```")
	compliant := true
	if req.Mode == entity.ModeCode && !hasCodeBlock {
		compliant = false
	}
	if req.Mode == entity.ModeHint && hasCodeBlock {
		compliant = false
	}

	score := &entity.EvaluationScore{
		Overall:       4.2,
		ModeCompliant: compliant,
		Dimensions: map[string]float64{
			entity.DimTechnicalAccuracy:   4.0,
			entity.DimPedagogicalValue:    4.5,
			entity.DimClarity:             4.5,
			entity.DimContextualRelevance: 4.0,
		},
	}
	if !compliant {
		score.Overall = 2.0
		score.ImprovementAdvice = "Follow the requested mode: hints must stay prose-only, code answers need a fenced code block."
	}
	return score, nil
}
