package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type Job func() error

// Stats counts the jobs a pool has finished.
type Stats struct {
	Done   uint64
	Failed uint64
}

func (s Stats) Total() uint64 {
	return s.Done + s.Failed
}

// Pool runs jobs on a fixed number of goroutines. A pool of one worker
// runs every job inline from Do.
type Pool struct {
	wg     sync.WaitGroup
	work   chan Job
	close  func()
	done   atomic.Uint64
	failed atomic.Uint64
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{close: func() {}}
	if numWorkers == 1 {
		return pool
	}

	pool.work = make(chan Job, numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for job := range pool.work {
				pool.run(job)
			}
		})
	}
	pool.close = sync.OnceFunc(func() { close(pool.work) })

	return pool
}

// Do schedules job. It blocks while every worker is busy and the queue is
// full. Do must not be called after Wait.
func (p *Pool) Do(job Job) {
	if p.work == nil {
		p.run(job)
		return
	}
	p.work <- job
}

func (p *Pool) run(job Job) {
	if err := job(); err != nil {
		p.failed.Add(1)
		return
	}
	p.done.Add(1)
}

// Wait stops accepting jobs, waits for the scheduled ones to finish and
// returns the final counts.
func (p *Pool) Wait() Stats {
	p.close()
	p.wg.Wait()
	return p.Stats()
}

func (p *Pool) Stats() Stats {
	return Stats{
		Done:   p.done.Load(),
		Failed: p.failed.Load(),
	}
}
