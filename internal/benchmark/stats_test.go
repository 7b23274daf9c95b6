package benchmark

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sensai/assist-backend/internal/entity"
)

func okResult(latency time.Duration, attempts int, score *float64, fellBack bool) Result {
	return Result{
		Latency: latency,
		Response: entity.ProcessResponse{
			Success:         true,
			Attempts:        attempts,
			EvaluationScore: score,
			FellBack:        fellBack,
		},
	}
}

func ptr(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	results := []Result{
		okResult(100*time.Millisecond, 1, ptr(4.0), false),
		okResult(200*time.Millisecond, 2, ptr(3.0), false),
		okResult(300*time.Millisecond, 1, nil, true),
		{Err: errors.New("connection refused")},
	}

	stats := Compute(results)

	if stats.Total != 4 || stats.Successes != 3 || stats.Failures != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.FellBack != 1 {
		t.Fatalf("expected 1 fallback, got %d", stats.FellBack)
	}
	if stats.LatencyMean != 200*time.Millisecond {
		t.Fatalf("expected mean 200ms, got %s", stats.LatencyMean)
	}
	if stats.LatencyMedian != 200*time.Millisecond {
		t.Fatalf("expected median 200ms, got %s", stats.LatencyMedian)
	}
	if stats.ScoredCount != 2 || stats.ScoreMean != 3.5 {
		t.Fatalf("unexpected score stats: %+v", stats)
	}
	if stats.ScoreMin != 3.0 || stats.ScoreMax != 4.0 {
		t.Fatalf("unexpected score range: %+v", stats)
	}
	if stats.AttemptCounts[1] != 2 || stats.AttemptCounts[2] != 1 {
		t.Fatalf("unexpected attempts distribution: %+v", stats.AttemptCounts)
	}
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil)
	if stats.Total != 0 || stats.LatencyMean != 0 || stats.ScoredCount != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestPercentileIndex(t *testing.T) {
	tests := []struct {
		n, pct, want int
	}{
		{1, 95, 0},
		{10, 95, 8},
		{100, 95, 94},
		{20, 50, 9},
	}
	for _, tt := range tests {
		if got := percentileIndex(tt.n, tt.pct); got != tt.want {
			t.Fatalf("percentileIndex(%d, %d) = %d, want %d", tt.n, tt.pct, got, tt.want)
		}
	}
}

func TestRenderReport(t *testing.T) {
	stats := Compute([]Result{okResult(100*time.Millisecond, 1, ptr(4.0), false)})
	report := RenderReport(Options{Mode: "hint", UseEvaluation: true}, stats)

	for _, want := range []string{"Mode:", "hint", "Requests:", "Score mean:", "Attempts distribution:"} {
		if !strings.Contains(report, want) {
			t.Fatalf("expected %q in report:\n%s", want, report)
		}
	}
}
