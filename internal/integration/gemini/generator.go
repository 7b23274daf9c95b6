// Package gemini implements the fallback generator on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const providerName = "gemini"

// Generator is the availability tier: one fast, unevaluated attempt when the
// primary tier cannot answer. It ignores retry feedback because it is never
// part of the quality loop.
type Generator struct {
	cfg    config.GeminiConfig
	logger *zap.Logger
}

func NewGenerator(cfg config.GeminiConfig, logger *zap.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger}
}

func (g *Generator) Name() string { return providerName }

func (g *Generator) Generate(ctx context.Context, req *entity.AssistRequest, _ string) (string, error) {
	ctxzap.Info(ctx, "generating via gemini", zap.String("mode", string(req.Mode)))

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
	defer cancel()

	cl, err := genai.NewClient(callCtx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return "", &entity.GenerationError{Provider: providerName, Err: err}
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(g.cfg.Model))
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(0.2),
		MaxOutputTokens: ptrInt32(g.cfg.MaxOutputTokens),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPromptFor(req.Mode))},
	}

	resp, err := m.GenerateContent(callCtx, genai.Text(buildUserPrompt(req)))
	if err != nil {
		return "", &entity.GenerationError{Provider: providerName, Err: err}
	}

	text := firstText(resp)
	if text == "" {
		return "", &entity.GenerationError{Provider: providerName, Err: fmt.Errorf("empty response")}
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
