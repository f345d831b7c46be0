package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		name  string
		arena bool
		dump  bool
	}{
		{"heap", false, false},
		{"arena", true, false},
		{"dump", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenarioArena, scenarioDump = tt.arena, tt.dump
			t.Cleanup(func() { scenarioArena, scenarioDump = false, false })

			var buf bytes.Buffer
			require.NoError(t, runScenarios(context.Background(), &buf))
			out := buf.String()

			assert.Contains(t, out, "=== copy and release")
			assert.Equal(t, 1, strings.Count(out, "array release"))
			assert.Contains(t, out, "(5 elements)")
			// copy, shared and two at shutdown
			assert.Equal(t, 4, strings.Count(out, "scalar release"))
			assert.Contains(t, out, "shutdown freed 2")
			assert.Contains(t, out, "second shutdown freed 0")
		})
	}
}

func TestRunScenariosCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, runScenarios(ctx, &buf), context.Canceled)
}
