// Command benchmark runs a JSONL problem set against a live server and writes
// an aggregate report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sensai/assist-backend/internal/benchmark"
	"github.com/sensai/assist-backend/internal/pkg/formatter"
	"go.uber.org/zap"
)

func main() {
	var (
		endpoint   = flag.String("endpoint", "http://localhost:8000", "base URL of the running server")
		dataPath   = flag.String("data", "benchmark/samples.jsonl", "path to the JSONL samples file")
		mode       = flag.String("mode", "hint", "assistance mode: hint or code")
		evaluation = flag.Bool("evaluation", true, "enable the evaluation quality gate")
		retries    = flag.Int("retries", -1, "max retries per request, -1 uses the server default")
		limit      = flag.Int("limit", 0, "max samples to run, 0 runs all")
		format     = flag.String("format", "markdown", "report format: markdown or pdf")
		out        = flag.String("out", "", "output file, empty writes to stdout")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer logger.Sync()

	samples, err := benchmark.LoadSamples(*dataPath)
	if err != nil {
		logger.Fatal("failed to load samples", zap.Error(err))
	}

	opts := benchmark.Options{
		Mode:          *mode,
		UseEvaluation: *evaluation,
		SampleLimit:   *limit,
	}
	if *retries >= 0 {
		opts.MaxRetries = retries
	}

	runner := benchmark.NewRunner(*endpoint, logger)
	results := runner.Run(context.Background(), samples, opts)
	stats := benchmark.Compute(results)

	report := benchmark.RenderReport(opts, stats)

	fmtr, err := formatter.NewFactory().Create(formatter.Format(*format))
	if err != nil {
		logger.Fatal("unsupported report format", zap.Error(err))
	}

	rendered, err := fmtr.Format(report)
	if err != nil {
		logger.Fatal("failed to render report", zap.Error(err))
	}

	if *out == "" {
		fmt.Print(string(rendered))
		return
	}

	if err := os.WriteFile(*out, rendered, 0o644); err != nil {
		logger.Fatal("failed to write report", zap.Error(err))
	}
	logger.Info("report written", zap.String("path", *out))
}
