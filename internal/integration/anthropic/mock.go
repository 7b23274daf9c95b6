package anthropic

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

// MockGenerator is the deterministic stand-in used when ENABLE_MOCKS is set.
type MockGenerator struct {
	logger *zap.Logger
}

func NewMockGenerator(logger *zap.Logger) *MockGenerator {
	return &MockGenerator{logger: logger}
}

func (m *MockGenerator) Name() string { return "anthropic-mock" }

func (m *MockGenerator) Generate(ctx context.Context, req *entity.AssistRequest, feedback string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating via anthropic", zap.String("mode", string(req.Mode)))

	if req.Mode == entity.ModeCode {
		return "```" + req.Language + "\n// next step\nconst seen = new Map();\n```\nTime complexity O(n), space O(n).", nil
	}
	return "Consider using a hash map to store values you have already seen. That turns the inner scan into an O(1) lookup.", nil
}
