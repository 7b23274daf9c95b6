package assist

import "github.com/sensai/assist-backend/internal/entity"

func toProcessResponse(outcome *entity.PipelineOutcome) entity.ProcessResponse {
	resp := entity.ProcessResponse{
		Success:        true,
		Response:       outcome.Result.Text,
		Pipeline:       outcome.Result.PipelineUsed,
		Attempts:       outcome.Result.Attempts,
		FellBack:       outcome.FellBack,
		FallbackReason: outcome.FallbackReason,
	}
	if outcome.Score != nil {
		score := outcome.Score.Overall
		resp.EvaluationScore = &score
	}
	return resp
}
