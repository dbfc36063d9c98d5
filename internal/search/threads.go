package search

import "runtime"

// defaultThreads mirrors the teacher's NewScanner default: one worker
// per available CPU. Search is CPU-bound with no I/O wait on the hot
// path, so oversubscribing beyond GOMAXPROCS buys nothing.
func defaultThreads() int { return runtime.GOMAXPROCS(0) }
