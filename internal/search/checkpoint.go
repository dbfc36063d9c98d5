package search

import "sync"

// checkpointTracker turns out-of-order batch completions into a
// contiguous watermark: markDone only reports an advance once every
// batch from the tracker's start up to the returned value has
// completed, so the persisted checkpoint never skips an unfinished
// batch even though workers finish batches out of order.
type checkpointTracker struct {
	mu           sync.Mutex
	nextExpected uint64
	pending      map[uint64]bool
}

func newCheckpointTracker(start uint64) *checkpointTracker {
	return &checkpointTracker{nextExpected: start, pending: make(map[uint64]bool)}
}

// markDone records batch as complete and reports the new watermark
// (the highest batch index B such that every batch in
// [start, B] has completed) whenever that watermark advances.
func (t *checkpointTracker) markDone(batch uint64) (watermark uint64, advanced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if batch < t.nextExpected {
		return 0, false
	}
	t.pending[batch] = true
	for t.pending[t.nextExpected] {
		delete(t.pending, t.nextExpected)
		t.nextExpected++
		advanced = true
	}
	if advanced {
		return t.nextExpected - 1, true
	}
	return 0, false
}
