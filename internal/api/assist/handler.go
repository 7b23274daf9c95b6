package assist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sensai/assist-backend/internal/entity"
	"github.com/sensai/assist-backend/internal/pkg/logger"
	"github.com/sensai/assist-backend/internal/pkg/response"
	"github.com/sensai/assist-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   AssistUsecase
	validator *validator.Validator
	limiter   UsageLimiter
	defaults  entity.PipelineOptions
}

func NewHandler(
	usecase AssistUsecase,
	validator *validator.Validator,
	limiter UsageLimiter,
	defaults entity.PipelineOptions,
) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		limiter:   limiter,
		defaults:  defaults,
	}
}

// Process handles POST /process - run one assistance request through the
// tiered pipeline.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Process")

	var req entity.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateProcess(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	assistReq, opts := h.validator.Normalize(&req, h.defaults)

	if h.limiter != nil && !h.limiter.Allow(assistReq.UserID) {
		ctxzap.Warn(ctx, "daily usage limit reached", zap.String("user_id", assistReq.UserID))
		response.Error(w, http.StatusTooManyRequests, entity.ErrUsageLimitReached.Error())
		return
	}

	ctx = logger.AddFields(ctx,
		zap.String("mode", string(assistReq.Mode)),
		zap.Bool("use_evaluation", opts.UseEvaluation),
		zap.Int("max_attempts", opts.MaxAttempts),
	)
	ctxzap.Info(ctx, "processing assist request", zap.String("problem", assistReq.ProblemTitle))

	outcome, err := h.usecase.Process(ctx, assistReq, opts)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "assist request processed",
		zap.String("pipeline", outcome.Result.PipelineUsed),
		zap.Int("attempts", outcome.Result.Attempts),
		zap.Bool("fell_back", outcome.FellBack),
	)

	response.Success(w, toProcessResponse(outcome))
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrAssistUnavailable):
		ctxzap.Error(ctx, "all pipelines failed", zap.Error(err))
		response.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled):
		// Client went away mid-request; the status is for the logs only.
		ctxzap.Warn(ctx, "request cancelled by client", zap.Error(err))
		response.Error(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		ctxzap.Error(ctx, "internal error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
