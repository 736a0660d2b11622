package ingest

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Pool runs ingestion jobs on a bounded worker pool. Uploads are
// fire-and-forget from the caller's perspective; Wait exists so shutdown
// can drain in-flight jobs instead of killing them mid-cleanup.
type Pool struct {
	pool *ants.Pool
	wg   sync.WaitGroup
}

func NewPool(size int) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p}, nil
}

func (p *Pool) Submit(task func()) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		task()
	})
	if err != nil {
		p.wg.Done()
	}
	return err
}

// Wait blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) Release() {
	p.pool.Release()
}
