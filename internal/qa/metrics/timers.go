package metrics

import (
	"sort"
	"time"
)

// Timers keeps lap timers of the pipeline phases.
type Timers struct {
	Timers map[string]*Timer `json:"timers,omitempty"`
	last   string
	now    func() time.Time
}

func NewTimers() *Timers {
	return &Timers{Timers: make(map[string]*Timer), now: time.Now}
}

// set starts a timer, or stops it when it is already running.
func (ts *Timers) set(k string) {
	if _, ok := ts.Timers[k]; !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
		return
	}
	ts.Timers[k].Total = ts.now().Sub(ts.Timers[k].start).Seconds()
}

// Set stops the last lap and starts a new one.
func (ts *Timers) Set(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add starts or stops a standalone timer.
func (ts *Timers) Add(k string) {
	ts.set(k)
}

// Stop closes the running lap.
func (ts *Timers) Stop() {
	if ts.last != "" {
		ts.set(ts.last)
		ts.last = ""
	}
}

// Names returns the timer names, sorted.
func (ts *Timers) Names() []string {
	names := make([]string, 0, len(ts.Timers))
	for k := range ts.Timers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds"`
}
