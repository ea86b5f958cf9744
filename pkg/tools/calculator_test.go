package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1+1", 2},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"(345/5)*2", 138},
		{"10 / 4", 2.5},
		{"10 % 3", 1},
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"--4", 4},
		{"3.5 * 2", 7},
		{"((1+2)*(3+4))", 21},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculatorEvaluateErrors(t *testing.T) {
	tests := []string{
		"1 / 0",
		"5 % 0",
		"(1 + 2",
		"1 +",
		"",
		"two + two",
		"1 2",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := evaluate(expr)
			assert.Error(t, err)
		})
	}
}

func TestCalculatorExecute(t *testing.T) {
	tool := NewCalculatorTool()
	assert.Equal(t, "calculator", tool.ID())

	data, message, err := tool.Execute(context.Background(), map[string]any{
		"expression": "(345/5)*2",
	})
	require.NoError(t, err)
	assert.Equal(t, "(345/5)*2 = 138", message)

	payload, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "(345/5)*2", payload["expression"])
	assert.Equal(t, float64(138), payload["result"])
}

func TestCalculatorExecuteMissingExpression(t *testing.T) {
	tool := NewCalculatorTool()

	_, _, err := tool.Execute(context.Background(), map[string]any{})
	assert.Error(t, err)

	_, _, err = tool.Execute(context.Background(), map[string]any{"expression": "   "})
	assert.Error(t, err)

	_, _, err = tool.Execute(context.Background(), map[string]any{"expression": 42})
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "138", formatNumber(138))
	assert.Equal(t, "-3", formatNumber(-3))
	assert.Equal(t, "2.5", formatNumber(2.5))
}
