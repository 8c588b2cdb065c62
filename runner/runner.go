package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/flow"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/metrics"
	"github.com/finchat/finchat/model"
	"github.com/finchat/finchat/session"
	"github.com/finchat/finchat/tool"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
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
	// Store provides session lookup.
	Store session.Store
	// Logging services.
	Logger logging.Logger
	// Metrics collection.
	Collector metrics.Collector
}

// Runner coordinates conversations end to end: it creates sessions, accepts
// user submissions, drives the orchestration loop for each turn and streams
// the resulting events. Public methods are safe for concurrent use; within
// one session only a single turn runs at a time.
type Runner struct {
	model    model.Model
	registry *tool.Registry
	defs     []model.ToolDefinition
	executor *flow.Executor

	emptyRetryLimit int
	modelTimeout    time.Duration
	eventBufferSize int

	store     session.Store
	logger    logging.Logger
	collector metrics.Collector

	activeTurns map[string]context.CancelFunc
	mu          sync.Mutex
}

// New constructs a Runner with optional overrides.
func New(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{
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

	executor := flow.NewExecutor(registry, flow.ExecutorConfig{
		MaxParallel: opts.MaxToolParallelism,
		CallTimeout: opts.ToolTimeout,
		Logger:      opts.Logger,
		Collector:   opts.Collector,
	})

	return &Runner{
		model:           m,
		registry:        registry,
		defs:            model.Definitions(registry),
		executor:        executor,
		emptyRetryLimit: opts.EmptyRetryLimit,
		modelTimeout:    opts.ModelTimeout,
		eventBufferSize: opts.EventBufferSize,
		store:           opts.Store,
		logger:          opts.Logger,
		collector:       opts.Collector,
		activeTurns:     make(map[string]context.CancelFunc),
	}
}

// StartSession creates a session seeded with the system prompt and returns
// its id.
func (r *Runner) StartSession(systemPrompt string) (string, error) {
	id := core.NewID()
	if err := r.store.Put(session.New(id, systemPrompt)); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	r.collector.SessionStarted()
	r.logger.Info("runner.session.started", "session_id", id)
	return id, nil
}

// SubmitMessage appends the user text to the session history and starts one
// orchestration turn. The returned channel delivers the turn's events in
// order and closes after the terminal Completed or Failed event. A second
// submission while a turn is running fails with session.ErrTurnInFlight.
func (r *Runner) SubmitMessage(ctx context.Context, sessionID, text string) (<-chan core.Event, error) {
	sess, err := r.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.BeginTurn(); err != nil {
		return nil, err
	}

	if err := sess.Conversation.Append(core.NewUserMessage(text)); err != nil {
		sess.EndTurn()
		return nil, err
	}

	turnCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeTurns[sessionID] = cancel
	r.mu.Unlock()

	loop := flow.NewLoop(flow.LoopConfig{
		Model:           r.model,
		Tools:           r.defs,
		Executor:        r.executor,
		Conversation:    sess.Conversation,
		EmptyRetryLimit: r.emptyRetryLimit,
		ModelTimeout:    r.modelTimeout,
		EventBufferSize: r.eventBufferSize,
		Logger:          r.logger,
		Collector:       r.collector,
	})

	events := loop.Run(turnCtx)

	out := make(chan core.Event, r.eventBufferSize)
	go func() {
		defer func() {
			close(out)
			sess.EndTurn()
			cancel()
			r.mu.Lock()
			delete(r.activeTurns, sessionID)
			r.mu.Unlock()
		}()

		for ev := range events {
			out <- ev
		}
	}()

	return out, nil
}

// CancelTurn aborts the in-flight turn on a session, if any. The turn still
// delivers its terminal Failed event before the channel closes.
func (r *Runner) CancelTurn(sessionID string) error {
	r.mu.Lock()
	cancel, ok := r.activeTurns[sessionID]
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("no turn in flight for session %q", sessionID)
	}

	cancel()
	return nil
}

// ClearSession resets the session history to its system prompt.
func (r *Runner) ClearSession(sessionID string) error {
	sess, err := r.store.Get(sessionID)
	if err != nil {
		return err
	}

	sess.Conversation.Reset()
	r.logger.Info("runner.session.cleared", "session_id", sessionID)
	return nil
}

// CloseSession removes the session from the store. Closing an unknown
// session is a no-op.
func (r *Runner) CloseSession(sessionID string) {
	if _, err := r.store.Get(sessionID); err != nil {
		return
	}

	r.store.Delete(sessionID)
	r.collector.SessionClosed()
	r.logger.Info("runner.session.closed", "session_id", sessionID)
}

// History returns a point-in-time copy of the session's messages.
func (r *Runner) History(sessionID string) ([]core.Message, error) {
	sess, err := r.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Conversation.Snapshot(), nil
}
