package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestTimersLaps(t *testing.T) {
	ts := NewTimers()
	ts.now = fakeClock(time.Second)

	ts.Set("discover")
	ts.Set("extract")
	ts.Stop()

	assert.Equal(t, []string{"discover", "extract"}, ts.Names())
	assert.Equal(t, 1.0, ts.Timers["discover"].Total)
	assert.Equal(t, 1.0, ts.Timers["extract"].Total)
}

func TestTimersAdd(t *testing.T) {
	ts := NewTimers()
	ts.now = fakeClock(2 * time.Second)

	ts.Add("total")
	ts.Set("discover")
	ts.Stop()
	ts.Add("total")

	assert.Equal(t, 6.0, ts.Timers["total"].Total)
	assert.Equal(t, 2.0, ts.Timers["discover"].Total)
}
