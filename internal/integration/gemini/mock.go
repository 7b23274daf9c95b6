package gemini

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

func (m *MockGenerator) Name() string { return "gemini-mock" }

func (m *MockGenerator) Generate(ctx context.Context, req *entity.AssistRequest, _ string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating via gemini", zap.String("mode", string(req.Mode)))

	if req.Mode == entity.ModeCode {
		return "```" + req.Language + "\nreturn [];\n```\nO(1) time and space.", nil
	}
	return "Start by restating what the problem asks in your own words, then think about which data structure gives you fast lookups.", nil
}
