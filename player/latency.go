package player

import "time"

// latencyWindowSize is the number of recent call durations kept for the rolling average.
const latencyWindowSize = 20

// slowCallThreshold marks a call worth reporting. Slow calls are logged, never retried.
const slowCallThreshold = 100 * time.Millisecond

// latencyWindow tracks the durations of the last N transport calls.
type latencyWindow struct {
	samples [latencyWindowSize]time.Duration
	next    int
	size    int
}

func (w *latencyWindow) record(d time.Duration) {
	w.samples[w.next] = d
	w.next = (w.next + 1) % len(w.samples)
	if w.size < len(w.samples) {
		w.size++
	}
}

// average returns the rolling mean call duration, or zero when no calls completed yet.
func (w *latencyWindow) average() time.Duration {
	if w.size == 0 {
		return 0
	}
	var total time.Duration
	for i := 0; i < w.size; i++ {
		total += w.samples[i]
	}
	return total / time.Duration(w.size)
}
