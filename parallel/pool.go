package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

type (
	WorkerFunc func(func() error)
	WaitFunc   func() error
)

// Pool runs jobs on at most numWorkers goroutines. Do blocks while all
// workers are busy, which bounds the number of frames held in memory.
// With one worker jobs run inline on the caller's goroutine.
type Pool struct {
	Do      WorkerFunc
	Wait    WaitFunc
	workers int
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{workers: numWorkers}
	if numWorkers == 1 {
		var first error
		pool.Do = func(f func() error) {
			if err := f(); err != nil && first == nil {
				first = err
			}
		}
		pool.Wait = func() error { return first }
		return pool
	}

	g := new(errgroup.Group)
	g.SetLimit(numWorkers)
	pool.Do = func(f func() error) { g.Go(f) }
	pool.Wait = g.Wait
	return pool
}

func (p *Pool) Workers() int { return p.workers }
