// Package benchmark drives batches of assistance requests against a running
// server and aggregates latency and quality statistics.
package benchmark

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sensai/assist-backend/internal/entity"
	pkghttp "github.com/sensai/assist-backend/pkg/http"
	"go.uber.org/zap"
)

// Sample is one benchmark problem, stored as a line of JSONL.
type Sample struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}

// Options configure one benchmark run.
type Options struct {
	Mode          string
	UseEvaluation bool
	MaxRetries    *int
	SampleLimit   int
}

// Result is the outcome of one benchmarked request.
type Result struct {
	Sample   Sample
	Latency  time.Duration
	Response entity.ProcessResponse
	Err      error
}

// Runner sends benchmark requests to a live server endpoint.
type Runner struct {
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewRunner(baseURL string, logger *zap.Logger) *Runner {
	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{BaseURL: baseURL, Logger: logger},
		pkghttp.WithRequestTimeout(2*time.Minute),
		pkghttp.WithRequestLogging(),
	)
	return &Runner{connector: connector, logger: logger}
}

// LoadSamples reads a JSONL file of benchmark problems.
func LoadSamples(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples file: %w", err)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	// Problem descriptions can exceed the default 64KB token limit.
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("parse sample at line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read samples file: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples in %s", path)
	}

	return samples, nil
}

// Run executes the benchmark sequentially, one request at a time, so latency
// numbers reflect single-request behavior rather than server-side queueing.
func (r *Runner) Run(ctx context.Context, samples []Sample, opts Options) []Result {
	if opts.SampleLimit > 0 && opts.SampleLimit < len(samples) {
		samples = samples[:opts.SampleLimit]
	}

	results := make([]Result, 0, len(samples))
	for i, sample := range samples {
		if ctx.Err() != nil {
			break
		}

		r.logger.Info("benchmarking sample",
			zap.Int("index", i+1),
			zap.Int("total", len(samples)),
			zap.String("title", sample.Title),
		)

		results = append(results, r.runOne(ctx, sample, opts))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, sample Sample, opts Options) Result {
	req := entity.ProcessRequest{
		Problem: entity.ProblemDTO{
			Title:       sample.Title,
			Description: sample.Description,
			Code:        sample.Code,
		},
		Mode:          opts.Mode,
		Language:      sample.Language,
		UseEvaluation: &opts.UseEvaluation,
		MaxRetries:    opts.MaxRetries,
	}

	var resp entity.ProcessResponse
	start := time.Now()
	err := r.connector.DoRequest(ctx, http.MethodPost, "/process", req, &resp)
	latency := time.Since(start)

	if err != nil {
		r.logger.Warn("benchmark request failed",
			zap.String("title", sample.Title),
			zap.Error(err),
		)
	}

	return Result{
		Sample:   sample,
		Latency:  latency,
		Response: resp,
		Err:      err,
	}
}
