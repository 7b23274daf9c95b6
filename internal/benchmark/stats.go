package benchmark

import (
	"sort"
	"time"
)

// Stats aggregates one benchmark run.
type Stats struct {
	Total     int
	Successes int
	Failures  int
	FellBack  int

	LatencyMean   time.Duration
	LatencyMedian time.Duration
	LatencyP95    time.Duration

	ScoredCount int
	ScoreMean   float64
	ScoreMin    float64
	ScoreMax    float64

	// AttemptCounts maps attempt count to how many requests needed it.
	AttemptCounts map[int]int
}

// Compute derives aggregate statistics from raw results. Failed requests
// count toward totals but are excluded from latency and score aggregates.
func Compute(results []Result) Stats {
	stats := Stats{
		Total:         len(results),
		AttemptCounts: make(map[int]int),
	}

	var latencies []time.Duration
	var scoreSum float64

	for _, res := range results {
		if res.Err != nil {
			stats.Failures++
			continue
		}
		stats.Successes++
		latencies = append(latencies, res.Latency)
		stats.AttemptCounts[res.Response.Attempts]++
		if res.Response.FellBack {
			stats.FellBack++
		}
		if res.Response.EvaluationScore != nil {
			score := *res.Response.EvaluationScore
			if stats.ScoredCount == 0 || score < stats.ScoreMin {
				stats.ScoreMin = score
			}
			if stats.ScoredCount == 0 || score > stats.ScoreMax {
				stats.ScoreMax = score
			}
			scoreSum += score
			stats.ScoredCount++
		}
	}

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		stats.LatencyMean = sum / time.Duration(len(latencies))
		stats.LatencyMedian = latencies[len(latencies)/2]
		stats.LatencyP95 = latencies[percentileIndex(len(latencies), 95)]
	}

	if stats.ScoredCount > 0 {
		stats.ScoreMean = scoreSum / float64(stats.ScoredCount)
	}

	return stats
}

func percentileIndex(n, pct int) int {
	idx := n*pct/100 - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
