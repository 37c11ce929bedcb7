// Package session runs the question/answer loop: one bounded completion call
// per question, latency measurement, cost accounting and failure handling.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/stayask/internal/accounting"
	"github.com/theirongolddev/stayask/internal/llm"
	"github.com/theirongolddev/stayask/internal/model"
	"github.com/theirongolddev/stayask/internal/prompt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Apology is the answer shown whenever a question could not be answered.
const Apology = "Sorry, I couldn't get an answer for that right now. Please try again in a moment."

// ErrNoCatalog is returned by Answer when the prompt builder has no properties.
var ErrNoCatalog = errors.New("session: no property catalog loaded")

// Completer is the completion call the session depends on.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (llm.Completion, error)
}

// Indicator is a cosmetic progress display shown while waiting on the model.
// Stop is best-effort and never delays the result.
type Indicator interface {
	Start(label string)
	Stop()
}

// Options configures a Session.
type Options struct {
	Timeout      time.Duration // <= 0 means no session-imposed deadline
	CostTracking bool
	Indicator    Indicator
	Now          func() time.Time
}

// Session is one user's interactive conversation. It processes questions
// strictly one at a time and is not safe for concurrent use; serve each user
// with their own Session.
type Session struct {
	id      string
	opts    Options
	client  Completer
	prompts *prompt.Builder
	acct    *accounting.Accountant
	logger  *zap.Logger

	questions int
}

// New creates a session. acct may be nil when cost tracking is off.
func New(opts Options, client Completer, prompts *prompt.Builder, acct *accounting.Accountant, logger *zap.Logger) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if acct == nil {
		opts.CostTracking = false
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		opts:    opts,
		client:  client,
		prompts: prompts,
		acct:    acct,
		logger:  logger.With(zap.String("session", id)),
	}
}

// ID identifies the session in logs and benchmark records.
func (s *Session) ID() string {
	return s.id
}

// Questions returns how many questions have been asked, answered or not.
func (s *Session) Questions() int {
	return s.questions
}

// CostTracking reports whether successful answers are priced.
func (s *Session) CostTracking() bool {
	return s.opts.CostTracking
}

// Totals returns the running cost totals. Zero when tracking is off.
func (s *Session) Totals() model.SessionTotals {
	if s.acct == nil {
		return model.SessionTotals{}
	}
	return s.acct.Totals()
}

// Entries returns a copy of the cost log.
func (s *Session) Entries() []model.CostEntry {
	if s.acct == nil {
		return nil
	}
	return s.acct.Entries()
}

// Answer asks the model one question. Completion failures never surface as
// errors: they produce a Result carrying the apology answer, a Failure and no
// cost. The only error is ErrNoCatalog.
func (s *Session) Answer(ctx context.Context, question string) (model.Result, error) {
	if s.prompts.Len() == 0 {
		return model.Result{}, ErrNoCatalog
	}

	s.questions++
	q := model.Query{Text: question, Number: s.questions, StartedAt: s.opts.Now()}

	completion, err := s.complete(ctx, s.prompts.SystemPrompt(), q.Text)
	elapsed := s.opts.Now().Sub(q.StartedAt).Milliseconds()

	if err == nil && completion.Answer == "" {
		err = llm.ErrEmptyAnswer
	}

	res := model.Result{
		Question:       q.Text,
		ResponseTimeMs: elapsed,
		QuestionNumber: q.Number,
		Model:          completion.Model,
	}

	if err != nil {
		f := s.classify(err)
		s.logger.Warn("completion failed",
			zap.Int("question", q.Number),
			zap.String("kind", string(f.Kind)),
			zap.Int64("elapsed_ms", elapsed),
			zap.Error(err),
		)
		res.Answer = Apology
		res.Failure = &f
		return res, nil
	}

	res.Answer = completion.Answer
	if s.opts.CostTracking {
		usage := model.Usage{InputTokens: completion.InputTokens, OutputTokens: completion.OutputTokens}
		entry := s.acct.Record(q.Text, completion.Answer, usage, elapsed, q.StartedAt)
		res.Cost = &entry
	}

	s.logger.Debug("answered",
		zap.Int("question", q.Number),
		zap.Int64("elapsed_ms", elapsed),
		zap.String("model", completion.Model),
	)
	return res, nil
}

type completeResult struct {
	completion llm.Completion
	err        error
}

// complete makes the single bounded call. The call runs in its own goroutine
// so a client that ignores cancellation is abandoned at the deadline rather
// than holding up the session.
func (s *Session) complete(ctx context.Context, system, user string) (llm.Completion, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	if ind := s.opts.Indicator; ind != nil {
		ind.Start("Thinking")
		defer ind.Stop()
	}

	done := make(chan completeResult, 1)
	go func() {
		c, err := s.client.Complete(ctx, system, user)
		done <- completeResult{completion: c, err: err}
	}()

	select {
	case r := <-done:
		return r.completion, r.err
	case <-ctx.Done():
		return llm.Completion{}, ctx.Err()
	}
}

func (s *Session) classify(err error) model.Failure {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.Failure{
			Kind:    model.FailureTimeout,
			Message: fmt.Sprintf("no response within %s", s.opts.Timeout),
		}
	case errors.Is(err, context.Canceled):
		return model.Failure{Kind: model.FailureCancelled, Message: "question cancelled before an answer arrived"}
	case errors.Is(err, llm.ErrUnauthorized):
		return model.Failure{Kind: model.FailureUnauthorized, Message: err.Error()}
	case errors.Is(err, llm.ErrRateLimited):
		return model.Failure{Kind: model.FailureRateLimited, Message: err.Error()}
	case errors.Is(err, llm.ErrEmptyAnswer):
		return model.Failure{Kind: model.FailureEmptyAnswer, Message: err.Error()}
	default:
		return model.Failure{Kind: model.FailureTransport, Message: err.Error()}
	}
}

// Close ends the session. The summary is only meaningful, and ok is only
// true, when at least one question was asked and cost tracking is on.
func (s *Session) Close() (model.SessionSummary, bool) {
	if s.questions == 0 || !s.opts.CostTracking {
		return model.SessionSummary{}, false
	}
	return s.acct.Summary(), true
}
