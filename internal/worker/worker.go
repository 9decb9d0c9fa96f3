// Worker pool for concurrent scenario evaluation
package worker

import (
	"context"
	"sync"

	"impactsim/internal/config"
)

// Job is one scenario to evaluate, tagged with its position in a sweep.
type Job struct {
	Index    int
	Scenario config.Scenario
}

type ProcessFunc func(ctx context.Context, job Job) error

// Pool evaluates scenario jobs on a fixed number of goroutines.
type Pool struct {
	numWorkers int
	jobs       chan Job
	processor  ProcessFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, processor ProcessFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, bufferSize),
		processor:  processor,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.processor(ctx, job)
		}
	}
}

func (p *Pool) Submit(job Job) {
	p.jobs <- job
}

// Stop closes the job channel and waits for in-flight work to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
