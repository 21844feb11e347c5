// Package parallel splits index ranges across CPU cores.
package parallel

import (
	"runtime"
	"sync"
)

// For divides [0, items) across the available CPU cores and runs fn on each
// chunk concurrently, blocking until every chunk is done. fn must be safe to
// call from multiple goroutines on disjoint ranges.
func For(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForThreshold runs fn sequentially when items is at or below threshold,
// and in parallel otherwise. Small inputs avoid the goroutine overhead.
func ForThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	For(items, fn)
}
