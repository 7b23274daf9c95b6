package benchmark

import (
	"fmt"
	"sort"
	"strings"
)

// RenderReport produces the plain-text report body handed to a formatter.
func RenderReport(opts Options, stats Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode:            %s\n", opts.Mode)
	fmt.Fprintf(&b, "Evaluation:      %t\n", opts.UseEvaluation)
	if opts.MaxRetries != nil {
		fmt.Fprintf(&b, "Max retries:     %d\n", *opts.MaxRetries)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Requests:        %d\n", stats.Total)
	fmt.Fprintf(&b, "Succeeded:       %d\n", stats.Successes)
	fmt.Fprintf(&b, "Failed:          %d\n", stats.Failures)
	fmt.Fprintf(&b, "Fell back:       %d\n", stats.FellBack)
	b.WriteString("\n")

	if stats.Successes > 0 {
		fmt.Fprintf(&b, "Latency mean:    %s\n", stats.LatencyMean.Round(1e6))
		fmt.Fprintf(&b, "Latency median:  %s\n", stats.LatencyMedian.Round(1e6))
		fmt.Fprintf(&b, "Latency p95:     %s\n", stats.LatencyP95.Round(1e6))
		b.WriteString("\n")
	}

	if stats.ScoredCount > 0 {
		fmt.Fprintf(&b, "Scored:          %d\n", stats.ScoredCount)
		fmt.Fprintf(&b, "Score mean:      %.2f\n", stats.ScoreMean)
		fmt.Fprintf(&b, "Score min:       %.2f\n", stats.ScoreMin)
		fmt.Fprintf(&b, "Score max:       %.2f\n", stats.ScoreMax)
		b.WriteString("\n")
	}

	if len(stats.AttemptCounts) > 0 {
		b.WriteString("Attempts distribution:\n")
		attempts := make([]int, 0, len(stats.AttemptCounts))
		for a := range stats.AttemptCounts {
			attempts = append(attempts, a)
		}
		sort.Ints(attempts)
		for _, a := range attempts {
			fmt.Fprintf(&b, "  %d attempt(s): %d\n", a, stats.AttemptCounts[a])
		}
	}

	return b.String()
}
