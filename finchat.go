// Package finchat provides a high-level façade over the orchestration loop,
// tool registry and session services. Most applications interact with this
// package by:
//  1. Creating a FinChat via New() with a model client
//  2. Starting a session with a system prompt
//  3. Submitting messages and consuming the streamed events, or using
//     SubmitSync for a blocking request/response round trip
//
// Defaults are safe for local development: the full calculator toolset, an
// in-memory session store and a no-op logger.
package finchat

import (
	"context"
	"errors"
	"time"

	"github.com/finchat/finchat/calc"
	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/flow"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/metrics"
	"github.com/finchat/finchat/model"
	"github.com/finchat/finchat/runner"
	"github.com/finchat/finchat/session"
	"github.com/finchat/finchat/tool"
)

// Version is the library version.
const Version = "0.1.0"

// Options configures the FinChat instance.
type Options struct {
	// Tools exposed to the model; defaults to the full calculator set.
	Tools []tool.Tool
	// EmptyRetryLimit bounds corrective retries after empty model turns.
	EmptyRetryLimit int
	// MaxToolParallelism limits concurrent tool executions per batch.
	MaxToolParallelism int
	// ModelTimeout bounds each model invocation.
	ModelTimeout time.Duration
	// ToolTimeout bounds each individual tool call.
	ToolTimeout time.Duration
	// EventBufferSize sets channel buffering for turn events.
	EventBufferSize int
	// Store provides session lookup; in-memory by default.
	Store session.Store
	// Logger defaults to a no-op logger.
	Logger logging.Logger
	// Collector defaults to no-op metrics.
	Collector metrics.Collector
}

// FinChat is the high-level façade aggregating the runner and its services.
type FinChat struct {
	runner *runner.Runner
}

// New creates a FinChat instance around the given model client.
func New(m model.Model, optFns ...func(o *Options)) (*FinChat, error) {
	opts := Options{
		Tools:              calc.DefaultTools(),
		EmptyRetryLimit:    flow.DefaultEmptyRetryLimit,
		MaxToolParallelism: 4,
		EventBufferSize:    64,
		Store:              session.NewInMemoryStore(),
		Logger:             logging.NoOpLogger{},
		Collector:          metrics.Nop{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, err
	}

	r := runner.New(m, registry, func(o *runner.Options) {
		o.EmptyRetryLimit = opts.EmptyRetryLimit
		o.MaxToolParallelism = opts.MaxToolParallelism
		o.ModelTimeout = opts.ModelTimeout
		o.ToolTimeout = opts.ToolTimeout
		o.EventBufferSize = opts.EventBufferSize
		o.Store = opts.Store
		o.Logger = opts.Logger
		o.Collector = opts.Collector
	})

	return &FinChat{runner: r}, nil
}

// StartSession creates a session seeded with the system prompt.
func (f *FinChat) StartSession(systemPrompt string) (string, error) {
	return f.runner.StartSession(systemPrompt)
}

// SubmitMessage starts one turn and returns its event stream.
func (f *FinChat) SubmitMessage(ctx context.Context, sessionID, text string) (<-chan core.Event, error) {
	return f.runner.SubmitMessage(ctx, sessionID, text)
}

// SubmitSync is a synchronous helper that drains the event stream and
// returns the final answer along with every event of the turn. A Failed
// terminal event surfaces as the returned error.
func (f *FinChat) SubmitSync(ctx context.Context, sessionID, text string) (string, []core.Event, error) {
	eventsCh, err := f.SubmitMessage(ctx, sessionID, text)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event
	var final string
	for ev := range eventsCh {
		events = append(events, ev)
		switch e := ev.(type) {
		case core.Completed:
			final = e.FinalText
		case core.Failed:
			err := e.Err
			if err == nil {
				err = errors.New(string(e.Reason))
			}
			return "", events, err
		}
	}

	return final, events, nil
}

// ClearSession resets a session to its system prompt.
func (f *FinChat) ClearSession(sessionID string) error {
	return f.runner.ClearSession(sessionID)
}

// CloseSession removes a session.
func (f *FinChat) CloseSession(sessionID string) {
	f.runner.CloseSession(sessionID)
}

// Runner exposes the underlying runner, e.g. for the HTTP server.
func (f *FinChat) Runner() *runner.Runner {
	return f.runner
}
