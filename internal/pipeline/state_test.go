package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateLoaded, true},
		{StateLoaded, StateSelected, true},
		{StateSelected, StateRendered, true},
		{StateRendered, StateCompiling, true},
		{StateCompiling, StateCompiled, true},
		{StateCompiling, StateCompileFailed, true},
		{StateIdle, StateRendered, false},
		{StateLoaded, StateLoaded, false},
		{StateRendered, StateCompiled, false},
		{StateCompileFailed, StateCompiling, false},
		{StateCompiled, StateIdle, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateCompiled.Terminal())
	assert.True(t, StateCompileFailed.Terminal())
	assert.False(t, StateRendered.Terminal())
	assert.False(t, StateIdle.Terminal())
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{From: StateIdle, To: StateCompiled}
	assert.Equal(t, "invalid state transition: idle -> compiled", err.Error())
}

func TestStages(t *testing.T) {
	steps := make([]string, 0, len(Stages))
	for _, s := range Stages {
		steps = append(steps, s.Step)
		assert.NotEmpty(t, s.Category, "stage %s", s.Step)
	}
	assert.Equal(t, []string{StepLoadContent, StepSelectSections, StepRenderLaTeX, StepWriteSource, StepCompilePDF}, steps)
	assert.Equal(t, CategoryCompilation, categoryOf(StepCompilePDF))
	assert.Empty(t, categoryOf("unknown"))
}
