package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 23, 8, 0, 0, 0, time.UTC)

func TestManualEveryFiresPerInterval(t *testing.T) {
	clk := NewManual(epoch)
	fired := 0
	clk.Every(time.Second, func() { fired++ })

	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 0, fired)
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, 1, fired)
	clk.Advance(3 * time.Second)
	assert.Equal(t, 4, fired)
	assert.Equal(t, epoch.Add(4*time.Second), clk.Now())
}

func TestManualStopFromCallback(t *testing.T) {
	clk := NewManual(epoch)
	fired := 0
	var timer Timer
	timer = clk.Every(time.Second, func() {
		fired++
		if fired == 2 {
			timer.Stop()
		}
	})

	clk.Advance(10 * time.Second)
	assert.Equal(t, 2, fired)
	assert.Zero(t, clk.Active())
	timer.Stop()
}

func TestManualTimerStartedInCallbackUsesCallbackTime(t *testing.T) {
	clk := NewManual(epoch)
	var seen []time.Time
	var first Timer
	first = clk.Every(2*time.Second, func() {
		first.Stop()
		clk.Every(time.Second, func() { seen = append(seen, clk.Now()) })
	})

	clk.Advance(4 * time.Second)
	require.Len(t, seen, 2)
	assert.Equal(t, epoch.Add(3*time.Second), seen[0])
	assert.Equal(t, epoch.Add(4*time.Second), seen[1])
}

func TestRealClockPostsTicks(t *testing.T) {
	posted := make(chan struct{}, 64)
	clk := NewReal(func(fn func()) { fn() })
	timer := clk.Every(10*time.Millisecond, func() { posted <- struct{}{} })
	defer timer.Stop()

	select {
	case <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a tick")
	}
	timer.Stop()
	timer.Stop()
}
