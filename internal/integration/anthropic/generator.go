// Package anthropic implements the primary generator on the Claude Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	pkgretry "github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/config"
	"github.com/sensai/assist-backend/internal/entity"
	"go.uber.org/zap"
)

const providerName = "anthropic"

// Generator is the primary, high-quality tier. It accepts retry feedback and
// folds it into the next prompt.
type Generator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
	logger *zap.Logger
}

func NewGenerator(cfg config.AnthropicConfig, logger *zap.Logger) *Generator {
	return &Generator{
		client: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
		logger: logger,
	}
}

func (g *Generator) Name() string { return providerName }

// Generate runs one Claude call with transient-failure backoff. All failures
// surface as a single *entity.GenerationError; the quality loop never sees
// provider internals.
func (g *Generator) Generate(ctx context.Context, req *entity.AssistRequest, feedback string) (string, error) {
	userPrompt := buildUserPrompt(req, feedback)
	system := systemPromptFor(req.Mode)

	ctxzap.Info(ctx, "generating via anthropic",
		zap.String("mode", string(req.Mode)),
		zap.Bool("with_feedback", feedback != ""),
	)

	text, err := pkgretry.DoWithData(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()

		resp, err := g.client.Messages.New(callCtx, anthropic.MessageNewParams{
			Model:       anthropic.Model(g.cfg.Model),
			MaxTokens:   g.cfg.MaxTokens,
			Temperature: anthropic.Float(0.2),
			System: []anthropic.TextBlockParam{
				{Text: system},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
			},
		})
		if err != nil {
			return "", err
		}

		out := extractText(resp)
		if out == "" {
			return "", fmt.Errorf("no text blocks in response")
		}
		return out, nil
	}, g.cfg.Retry.ToOptions(ctx)...)
	if err != nil {
		return "", &entity.GenerationError{Provider: providerName, Err: err}
	}

	return text, nil
}

func extractText(resp *anthropic.Message) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
