package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KarakuriAgent/clawdroid/pkg/logger"
)

// Call is one requested tool invocation from a parsed directive.
type Call struct {
	ToolID string
	Args   map[string]any
}

// ExecOptions controls how a batch of tool calls is executed.
type ExecOptions struct {
	// Parallel enables concurrent execution of the batch. Tool calls in
	// one directive are independent by contract, so parallel dispatch is
	// safe; results keep the input order either way.
	Parallel       bool
	MaxConcurrency int
}

// Dispatch executes a single tool call and normalizes every outcome,
// including panics inside the executor, into a Result. A missing tool id
// is a failure of that call only.
func (r *Registry) Dispatch(ctx context.Context, call Call) Result {
	tool, ok := r.Get(call.ToolID)
	if !ok {
		logger.ErrorCF("tool", "Tool not found", map[string]any{"tool": call.ToolID})
		return FailureResult(call.ToolID, fmt.Sprintf("tool %q not found", call.ToolID))
	}

	start := time.Now()
	result := runIsolated(ctx, tool, call)
	duration := time.Since(start)

	if result.Success {
		logger.InfoCF("tool", "Tool execution completed", map[string]any{
			"tool":        call.ToolID,
			"duration_ms": duration.Milliseconds(),
		})
	} else {
		logger.ErrorCF("tool", "Tool execution failed", map[string]any{
			"tool":        call.ToolID,
			"duration_ms": duration.Milliseconds(),
			"error":       result.Error,
		})
	}
	return result
}

// runIsolated invokes the executor with panic recovery so one misbehaving
// tool cannot take down the turn.
func runIsolated(ctx context.Context, tool Tool, call Call) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = FailureResult(call.ToolID, fmt.Sprintf("tool panicked: %v", rec))
		}
	}()

	data, message, err := tool.Execute(ctx, call.Args)
	if err != nil {
		return FailureResult(call.ToolID, err.Error())
	}
	if message == "" {
		message = "ok"
	}
	return SuccessResult(call.ToolID, data, message)
}

// ExecuteCalls runs a batch of tool calls with optional bounded
// parallelism, preserving result order exactly as provided in calls.
// One call's failure never prevents the others from executing.
func ExecuteCalls(ctx context.Context, registry *Registry, calls []Call, opts ExecOptions) []Result {
	if len(calls) == 0 {
		return nil
	}
	batchStart := time.Now()

	results := make([]Result, len(calls))
	runOne := func(idx int) {
		results[idx] = registry.Dispatch(ctx, calls[idx])
	}

	maxConc := opts.MaxConcurrency
	if !opts.Parallel || maxConc == 1 || len(calls) == 1 {
		for i := range calls {
			runOne(i)
		}
	} else {
		if maxConc <= 0 || maxConc > len(calls) {
			maxConc = len(calls)
		}

		jobs := make(chan int)
		var wg sync.WaitGroup
		for i := 0; i < maxConc; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					runOne(idx)
				}
			}()
		}
		for i := range calls {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	errorCount := 0
	for _, res := range results {
		if !res.Success {
			errorCount++
		}
	}
	logger.InfoCF("tool", "Tool call batch summary", map[string]any{
		"total":             len(calls),
		"error_count":       errorCount,
		"parallel":          opts.Parallel,
		"batch_duration_ms": time.Since(batchStart).Milliseconds(),
	})

	return results
}
