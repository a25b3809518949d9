package profiler_test

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	p := profiler.NewProfiler(profiler.WithClock(clock.now), profiler.WithInterval(2*time.Second))

	for i := 0; i < 59; i++ {
		clock.t = clock.t.Add(time.Second / 30)
		assert.False(t, p.Tick())
	}
	clock.t = clock.t.Add(time.Second/30 + time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 30, p.Last().FPS, 0.1)
	assert.Greater(t, p.Last().SysMB, 0.0)

	clock.t = clock.t.Add(time.Second)
	assert.False(t, p.Tick())
}

func TestNonPositiveIntervalKeepsDefault(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := profiler.NewProfiler(profiler.WithClock(clock.now), profiler.WithInterval(0))

	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.False(t, p.Tick())
	clock.t = clock.t.Add(500 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 2, p.Last().FPS, 1e-9)
}
