package model

import "time"

// Query is a single user question within a session.
type Query struct {
	Text      string
	Number    int
	StartedAt time.Time
}

// Usage holds token counts reported by the completion endpoint.
// Zero means the endpoint did not report the value.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// CostEntry is one priced, timed record of a successful query.
type CostEntry struct {
	QuestionPreview string    `json:"question"`
	ResponseTimeMs  int64     `json:"response_time_ms"`
	InputTokens     int64     `json:"input_tokens"`
	OutputTokens    int64     `json:"output_tokens"`
	TotalTokens     int64     `json:"total_tokens"`
	InputCost       float64   `json:"input_cost"`
	OutputCost      float64   `json:"output_cost"`
	TotalCost       float64   `json:"total_cost"`
	Timestamp       time.Time `json:"timestamp"`
	Estimated       bool      `json:"estimated"` // token counts came from the fallback heuristic
}

// SessionTotals is the running aggregate over all cost entries of a session.
type SessionTotals struct {
	TotalCost    float64
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TokenTotals splits a token count by direction.
type TokenTotals struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

// SessionSummary is produced when a session closes.
type SessionSummary struct {
	TotalQueries          int         `json:"total_queries"`
	TotalCost             float64     `json:"total_cost"`
	TotalTokens           TokenTotals `json:"total_tokens"`
	AverageCostPerQuery   float64     `json:"average_cost_per_query"`
	AverageTokensPerQuery float64     `json:"average_tokens_per_query"`
}

// FailureKind classifies why a query could not be answered.
type FailureKind string

const (
	FailureTimeout      FailureKind = "timeout"
	FailureCancelled    FailureKind = "cancelled"
	FailureUnauthorized FailureKind = "unauthorized"
	FailureRateLimited  FailureKind = "rate_limited"
	FailureEmptyAnswer  FailureKind = "empty_answer"
	FailureTransport    FailureKind = "transport"
)

// Failure describes a query that produced no model answer.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Result is what the session hands to the display layer for every question.
// Exactly one of Cost-bearing success or Failure applies: a failed result
// always has a nil Cost.
type Result struct {
	Question       string
	Answer         string
	ResponseTimeMs int64
	QuestionNumber int
	Model          string
	Cost           *CostEntry
	Failure        *Failure
}

// Failed reports whether the question could not be answered.
func (r Result) Failed() bool {
	return r.Failure != nil
}

// Error returns the failure message, or "" for a successful result.
func (r Result) Error() string {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Message
}
