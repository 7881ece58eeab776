package parallel

import (
	"runtime"
	"sync"
)

// For splits [0,n) into contiguous chunks and runs fn on each chunk from its
// own goroutine. fn must not assume any ordering between chunks.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// Each runs fn once per index in [0,n), chunked across CPUs.
func Each(n int, fn func(i int)) {
	For(n, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
