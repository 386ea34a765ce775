package queue

import (
	"context"
	"sync"

	"video-service/pkg/logger"
)

// Pool runs jobs on in-process workers. Used by the embedded mode (no
// redis) and by tests. Cancellation follows the same rule as the redis
// queue: only jobs still sitting in the channel can be skipped, and a
// cancel for an asset with nothing queued reports false.
type Pool struct {
	jobChan chan Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	queued    map[string]int
	cancelled map[string]struct{}
}

func NewPool(workerCount int, handler func(Job)) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{
		jobChan:   make(chan Job, 100),
		ctx:       ctx,
		cancel:    cancel,
		queued:    make(map[string]int),
		cancelled: make(map[string]struct{}),
	}

	for i := 0; i < workerCount; i++ {
		pool.wg.Add(1)
		go pool.run(i, handler)
	}
	return pool
}

func (p *Pool) run(id int, handler func(Job)) {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			// The job is no longer cancellable once a worker holds it.
			p.markPicked(job.AssetID)
			if p.consumeCancel(job.AssetID) {
				logger.Infof("worker %d: skipping cancelled job for asset %s", id, job.AssetID)
				continue
			}
			handler(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	p.mu.Lock()
	delete(p.cancelled, job.AssetID)
	p.queued[job.AssetID]++
	p.mu.Unlock()

	select {
	case p.jobChan <- job:
		return nil
	case <-ctx.Done():
		p.markPicked(job.AssetID)
		return ctx.Err()
	}
}

// Cancel marks a still-queued job so the worker skips it. Returns false when
// nothing is queued for the asset, matching the redis queue's contract.
func (p *Pool) Cancel(ctx context.Context, assetID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queued[assetID] == 0 {
		return false, nil
	}
	p.cancelled[assetID] = struct{}{}
	return true, nil
}

func (p *Pool) markPicked(assetID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queued[assetID] > 1 {
		p.queued[assetID]--
		return
	}
	delete(p.queued, assetID)
}

func (p *Pool) consumeCancel(assetID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.cancelled[assetID]; ok {
		delete(p.cancelled, assetID)
		return true
	}
	return false
}

// queuedCount reports how many jobs for the asset are still waiting.
func (p *Pool) queuedCount(assetID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queued[assetID]
}

func (p *Pool) Shutdown() {
	p.cancel()
	close(p.jobChan)
	p.wg.Wait()
}
