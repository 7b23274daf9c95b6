package assist

import (
	"context"

	"github.com/sensai/assist-backend/internal/entity"
)

// AssistUsecase is the pipeline entry point consumed by the HTTP handler.
type AssistUsecase interface {
	Process(ctx context.Context, req *entity.AssistRequest, opts entity.PipelineOptions) (*entity.PipelineOutcome, error)
}

// UsageLimiter gates requests per user before they reach the pipeline.
type UsageLimiter interface {
	Allow(userID string) bool
}
