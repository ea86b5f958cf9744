package tools

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchSuccess(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "echo",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return map[string]any{"echoed": args["text"]}, "echoed", nil
		},
	})

	result := registry.Dispatch(context.Background(), Call{
		ToolID: "echo",
		Args:   map[string]any{"text": "hello"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "echo", result.ToolID)
	assert.Equal(t, "echoed", result.Message)
	assert.Equal(t, map[string]any{"echoed": "hello"}, result.Data)
	assert.Empty(t, result.Error)
}

func TestDispatchToolNotFound(t *testing.T) {
	registry := NewRegistry()

	result := registry.Dispatch(context.Background(), Call{ToolID: "ghost"})

	assert.False(t, result.Success)
	assert.Equal(t, "ghost", result.ToolID)
	assert.Contains(t, result.Error, "not found")
	assert.Nil(t, result.Data)
}

func TestDispatchExecutorError(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "broken",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return nil, "", errors.New("upstream timeout")
		},
	})

	result := registry.Dispatch(context.Background(), Call{ToolID: "broken"})

	assert.False(t, result.Success)
	assert.Equal(t, "upstream timeout", result.Error)
	// Failed results never carry a payload.
	assert.Nil(t, result.Data)
}

func TestDispatchPanicIsolated(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "bomb",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			panic("boom")
		},
	})

	var result Result
	require.NotPanics(t, func() {
		result = registry.Dispatch(context.Background(), Call{ToolID: "bomb"})
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "boom")
}

func TestDispatchEmptyMessageDefaults(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "quiet",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return map[string]any{"v": 1}, "", nil
		},
	})

	result := registry.Dispatch(context.Background(), Call{ToolID: "quiet"})
	require.True(t, result.Success)
	assert.Equal(t, "ok", result.Message)
}

func TestExecuteCallsPreservesOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "name",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return args["n"], "", nil
		},
	})

	calls := []Call{
		{ToolID: "name", Args: map[string]any{"n": "one"}},
		{ToolID: "name", Args: map[string]any{"n": "two"}},
		{ToolID: "name", Args: map[string]any{"n": "three"}},
	}

	for _, parallel := range []bool{false, true} {
		results := ExecuteCalls(context.Background(), registry, calls, ExecOptions{
			Parallel:       parallel,
			MaxConcurrency: 2,
		})
		require.Len(t, results, 3)
		assert.Equal(t, "one", results[0].Data)
		assert.Equal(t, "two", results[1].Data)
		assert.Equal(t, "three", results[2].Data)
	}
}

func TestExecuteCallsSiblingFailureIndependent(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "ok",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return map[string]any{"fine": true}, "fine", nil
		},
	})
	registry.Register(&fakeTool{
		id: "fail",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			return nil, "", errors.New("nope")
		},
	})

	results := ExecuteCalls(context.Background(), registry, []Call{
		{ToolID: "ok"},
		{ToolID: "fail"},
		{ToolID: "missing"},
		{ToolID: "ok"},
	}, ExecOptions{Parallel: true, MaxConcurrency: 4})

	require.Len(t, results, 4)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.True(t, results[3].Success)
}

func TestExecuteCallsBoundedConcurrency(t *testing.T) {
	var active, peak int32
	registry := NewRegistry()
	registry.Register(&fakeTool{
		id: "track",
		execute: func(ctx context.Context, args map[string]any) (any, string, error) {
			cur := atomic.AddInt32(&active, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
					break
				}
			}
			atomic.AddInt32(&active, -1)
			return nil, "done", nil
		},
	})

	calls := make([]Call, 16)
	for i := range calls {
		calls[i] = Call{ToolID: "track"}
	}

	results := ExecuteCalls(context.Background(), registry, calls, ExecOptions{
		Parallel:       true,
		MaxConcurrency: 3,
	})

	require.Len(t, results, 16)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestExecuteCallsEmpty(t *testing.T) {
	registry := NewRegistry()
	results := ExecuteCalls(context.Background(), registry, nil, ExecOptions{})
	assert.Nil(t, results)
}
