package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDelinquencyState_Legacy(t *testing.T) {
	tests := []struct {
		in       string
		expected DelinquencyState
	}{
		{"Al Día", StateCurrent},
		{"al dia", StateCurrent},
		{"TEMPRANA", StateEarly},
		{"Moderada", StateModerate},
		{"Grave", StateSevere},
		{"Crítica", StateCritical},
		{"critico", StateCritical},
		{"current", StateCurrent},
		{"severe", StateSevere},
		{"", StateCurrent}, // empty legacy column defaults to current
	}
	for _, tt := range tests {
		got, ok := ParseDelinquencyState(tt.in)
		assert.True(t, ok, "input %q", tt.in)
		assert.Equal(t, tt.expected, got, "input %q", tt.in)
	}
}

func TestParseDelinquencyState_Unknown(t *testing.T) {
	_, ok := ParseDelinquencyState("banana")
	assert.False(t, ok)
}

func TestDelinquencyStateValid(t *testing.T) {
	for _, s := range DelinquencyStates {
		assert.True(t, s.Valid())
	}
	assert.False(t, DelinquencyState("Grave").Valid())
}
