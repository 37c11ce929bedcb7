package model

import "time"

// BenchmarkRun is one execution of the benchmark question set.
type BenchmarkRun struct {
	ID        string
	StartedAt time.Time
	Model     string
	Results   []BenchmarkResult
	Summary   SessionSummary
}

// BenchmarkResult is one question within a benchmark run.
type BenchmarkResult struct {
	QuestionNumber int
	Question       string
	ResponseTimeMs int64
	InputTokens    int64
	OutputTokens   int64
	TotalCost      float64
	Error          string
}

// Successes counts results without an error.
func (r BenchmarkRun) Successes() int {
	n := 0
	for _, res := range r.Results {
		if res.Error == "" {
			n++
		}
	}
	return n
}

// AverageResponseMs is the mean latency across all results.
func (r BenchmarkRun) AverageResponseMs() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	var total int64
	for _, res := range r.Results {
		total += res.ResponseTimeMs
	}
	return float64(total) / float64(len(r.Results))
}
