package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/finchat/finchat/core"
	"github.com/finchat/finchat/logging"
	"github.com/finchat/finchat/metrics"
	"github.com/finchat/finchat/tool"
)

// ExecutorConfig configures the tool dispatcher.
type ExecutorConfig struct {
	// MaxParallel bounds concurrent tool executions within one batch.
	// 0 or negative means no explicit limit.
	MaxParallel int
	// CallTimeout bounds each individual tool invocation. 0 disables the
	// per-call deadline.
	CallTimeout time.Duration
	// Logger receives per-call diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Collector receives timing observations. Defaults to metrics.Nop.
	Collector metrics.Collector
}

// Executor dispatches batches of tool calls against the registry. Each call
// is isolated: unknown names, coercion failures, panics and timeouts all
// become per-call error results, never batch aborts. Results correspond 1:1
// to requests, associated by tool call ID in request order, while execution
// itself may run concurrently.
type Executor struct {
	registry    *tool.Registry
	maxParallel int
	callTimeout time.Duration
	logger      logging.Logger
	collector   metrics.Collector
}

// NewExecutor constructs an Executor over the given registry.
func NewExecutor(registry *tool.Registry, cfg ExecutorConfig) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	collector := cfg.Collector
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Executor{
		registry:    registry,
		maxParallel: cfg.MaxParallel,
		callTimeout: cfg.CallTimeout,
		logger:      logger,
		collector:   collector,
	}
}

// Dispatch executes the batch and returns exactly one result per request, in
// request order. A zero-length batch is a no-op.
func (e *Executor) Dispatch(ctx context.Context, calls []core.ToolCall) []core.ToolResult {
	n := len(calls)
	if n == 0 {
		return nil
	}

	// Fast path: single call, execute inline.
	if n == 1 {
		return []core.ToolResult{e.executeOne(ctx, calls[0])}
	}

	maxPar := e.maxParallel
	if maxPar <= 0 || maxPar > n {
		maxPar = n
	}

	results := make([]core.ToolResult, n)
	sem := make(chan struct{}, maxPar)
	var wg sync.WaitGroup

	batchStart := time.Now()
	for i := range calls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, call core.ToolCall) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = e.executeOne(ctx, call)
		}(i, calls[i])
	}
	wg.Wait()

	e.logger.Debug("tool.batch.complete",
		"count", n,
		"parallelism", maxPar,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)

	return results
}

// executeOne runs a single tool call through lookup, coercion and the
// failure boundary, turning every fault into a ToolResult error.
func (e *Executor) executeOne(ctx context.Context, call core.ToolCall) core.ToolResult {
	result := core.ToolResult{ToolCallID: call.ID, Name: call.Name}

	impl, ok := e.registry.Lookup(call.Name)
	if !ok {
		result.Err = tool.NotFound(call.Name)
		e.logger.Warn("tool.call.unknown", "tool", call.Name, "tool_call_id", call.ID)
		e.collector.ObserveToolCall(call.Name, 0, tool.CodeNotFound)
		return result
	}

	coerced, coerceErr := coerceArguments(call.Name, impl.Schema(), call.Arguments)
	if coerceErr != nil {
		result.Err = coerceErr
		e.logger.Warn("tool.call.bad_arguments", "tool", call.Name, "error", coerceErr.Error())
		e.collector.ObserveToolCall(call.Name, 0, coerceErr.Code)
		return result
	}

	callCtx := ctx
	if e.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
	}

	start := time.Now()
	output, err := e.invoke(callCtx, impl, coerced)
	dur := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = tool.NewError(call.Name, tool.CodeTimeout,
				fmt.Sprintf("execution exceeded %s", e.callTimeout))
		}
		var toolErr *tool.Error
		if !errors.As(err, &toolErr) {
			toolErr = tool.NewError(call.Name, tool.CodeExecutionError, err.Error())
		}
		result.Err = toolErr
		e.logger.Error("tool.call.error", "tool", call.Name, "duration_ms", dur.Milliseconds(), "error", toolErr.Message)
		e.collector.ObserveToolCall(call.Name, dur, toolErr.Code)
		return result
	}

	result.Output = output
	e.logger.Info("tool.call.success", "tool", call.Name, "duration_ms", dur.Milliseconds())
	e.collector.ObserveToolCall(call.Name, dur, "")

	return result
}

// invoke calls the tool inside a panic boundary so one faulting tool never
// unwinds the batch.
func (e *Executor) invoke(ctx context.Context, impl tool.Tool, args map[string]any) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = tool.NewError(impl.Name(), tool.CodeExecutionError, fmt.Sprintf("panic: %v", r))
			e.logger.Error("tool.call.panic", "tool", impl.Name(), "recover", r)
		}
	}()
	return impl.Call(ctx, args)
}
