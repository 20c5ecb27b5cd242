package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("stage_timer")
	assert.Equal(t, "stage_timer", timer.Name())

	// Sleep for a short duration
	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())

	str := timer.String()
	assert.Contains(t, str, "stage_timer")
	assert.Contains(t, str, "ms")
}

func TestUnnamedTimer(t *testing.T) {
	timer := NewTimer()
	assert.Equal(t, "", timer.Name())

	time.Sleep(time.Millisecond)
	duration := timer.Stop()
	assert.Greater(t, duration, time.Duration(0))
	assert.NotContains(t, timer.String(), ":")
}
