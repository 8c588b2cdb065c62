package flow

import (
	"context"
	"errors"
	"time"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/metrics"
	"github.com/finchat/finchat/model"
)

// DefaultEmptyRetryLimit bounds corrective re-invocations after the model
// returns a turn with neither content nor tool calls.
const DefaultEmptyRetryLimit = 3

// correctiveInstruction is the synthetic user message appended when the
// model produces an empty turn.
const correctiveInstruction = "Produce a substantive answer to the previous request."

// LoopConfig wires one Loop instance.
type LoopConfig struct {
	Model        model.Model
	Tools        []model.ToolDefinition
	Executor     *Executor
	Conversation *core.Conversation
	// EmptyRetryLimit bounds empty-response retries; values < 0 fall back
	// to DefaultEmptyRetryLimit. Zero disables retries entirely.
	EmptyRetryLimit int
	// ModelTimeout bounds each model invocation. 0 disables the deadline.
	ModelTimeout time.Duration
	// EventBufferSize sets the emission channel buffer.
	EventBufferSize int
	Logger          logging.Logger
	Collector       metrics.Collector
}

// Loop is the orchestration state machine for one conversation turn. It owns
// the phase transitions of its Conversation, invokes the model, routes the
// result, dispatches tools and emits an ordered, finite event sequence that
// always ends with Completed or Failed. A Loop instance serves a single
// submission; it is not restartable.
type Loop struct {
	cfg LoopConfig
}

// NewLoop constructs a Loop; defaults are applied for unset config fields.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.EmptyRetryLimit < 0 {
		cfg.EmptyRetryLimit = DefaultEmptyRetryLimit
	}
	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}
	if cfg.Collector == nil {
		cfg.Collector = metrics.Nop{}
	}
	return &Loop{cfg: cfg}
}

// Run launches the loop asynchronously and returns the event channel. The
// channel is closed after the terminal event. Cancellation via ctx is
// honored at each suspension point (model call, tool dispatch); state
// already appended to the conversation is retained.
func (l *Loop) Run(ctx context.Context) <-chan core.Event {
	events := make(chan core.Event, l.cfg.EventBufferSize)

	go func() {
		defer close(events)
		l.run(ctx, events)
	}()

	return events
}

func (l *Loop) run(ctx context.Context, events chan<- core.Event) {
	conv := l.cfg.Conversation
	emptyRetries := 0

	for {
		conv.SetPhase(core.PhaseAwaitingModel)

		assistant, err := l.invokeModel(ctx)
		if err != nil {
			l.fail(ctx, events, err)
			return
		}

		if assistant.IsEmpty() {
			if emptyRetries >= l.cfg.EmptyRetryLimit {
				l.cfg.Logger.Warn("loop.empty_response.exhausted", "retries", emptyRetries)
				l.emit(ctx, events, core.Failed{
					Reason: core.FailureEmptyResponse,
					Err:    errors.New("model returned no content and no tool calls"),
				})
				conv.SetPhase(core.PhaseTerminated)
				return
			}
			emptyRetries++
			l.cfg.Logger.Debug("loop.empty_response.retry", "attempt", emptyRetries)
			if err := l.appendAll(assistant, core.NewUserMessage(correctiveInstruction)); err != nil {
				l.fail(ctx, events, err)
				return
			}
			continue
		}

		if err := conv.Append(assistant); err != nil {
			l.fail(ctx, events, err)
			return
		}

		if assistant.Content != "" {
			if !l.emit(ctx, events, core.ContentFragment{Text: assistant.Content}) {
				return
			}
		}

		if Decide(assistant) == Terminate {
			conv.SetPhase(core.PhaseTerminated)
			l.emit(ctx, events, core.Completed{FinalText: assistant.Content})
			return
		}

		conv.SetPhase(core.PhaseAwaitingTools)

		for _, call := range assistant.ToolCalls {
			if !l.emit(ctx, events, core.ToolInvocationAnnounced{Name: call.Name, Arguments: call.Arguments}) {
				return
			}
		}

		results := l.cfg.Executor.Dispatch(ctx, assistant.ToolCalls)
		for _, result := range results {
			if err := conv.Append(core.NewToolMessage(result)); err != nil {
				l.fail(ctx, events, err)
				return
			}
			if !l.emit(ctx, events, core.ToolResultProduced{Result: result}) {
				return
			}
		}

		if ctx.Err() != nil {
			l.fail(ctx, events, ctx.Err())
			return
		}
	}
}

// invokeModel performs one model call with the configured deadline and
// records its outcome.
func (l *Loop) invokeModel(ctx context.Context) (core.Message, error) {
	callCtx := ctx
	if l.cfg.ModelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, l.cfg.ModelTimeout)
		defer cancel()
	}

	req := model.Request{Messages: l.cfg.Conversation.Snapshot(), Tools: l.cfg.Tools}

	start := time.Now()
	assistant, err := l.cfg.Model.Invoke(callCtx, req)
	dur := time.Since(start)

	l.cfg.Collector.ObserveModelCall(l.cfg.Model.Info().Provider, dur, err != nil)
	if err != nil {
		l.cfg.Logger.Error("loop.model.error", "duration_ms", dur.Milliseconds(), "error", err.Error())
		return core.Message{}, err
	}
	l.cfg.Logger.Debug("loop.model.turn", "duration_ms", dur.Milliseconds(), "tool_calls", len(assistant.ToolCalls))

	return assistant, nil
}

func (l *Loop) appendAll(msgs ...core.Message) error {
	for _, msg := range msgs {
		if err := l.cfg.Conversation.Append(msg); err != nil {
			return err
		}
	}
	return nil
}

// fail maps an error to its terminal Failed event and marks the turn done.
func (l *Loop) fail(ctx context.Context, events chan<- core.Event, err error) {
	reason := core.FailureModelUnavailable
	switch {
	case errors.Is(err, core.ErrInvariantViolation):
		reason = core.FailureInvariantViolation
	case errors.Is(err, context.Canceled):
		reason = core.FailureCanceled
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil:
		// The caller's own deadline elapsed, not the per-call model budget.
		reason = core.FailureCanceled
	}

	l.cfg.Conversation.SetPhase(core.PhaseTerminated)
	l.emit(ctx, events, core.Failed{Reason: reason, Err: err})
}

// emit delivers an event unless the caller has gone away. Terminal events
// use a buffered channel so delivery normally succeeds even after cancel.
func (l *Loop) emit(ctx context.Context, events chan<- core.Event, ev core.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		// Last attempt without blocking so a terminal event is not lost
		// when the buffer still has room.
		select {
		case events <- ev:
		default:
		}
		return false
	}
}
