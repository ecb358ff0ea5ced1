// Package worker provides background processing for artist-insight warm-ups.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ewilliams-labs/typetune/internal/logging"
)

// Job asks for the artist insight of one track to be prepared ahead of time.
type Job struct {
	TrackID string
	Token   string
}

// Warmer prepares an artist insight for a track.
type Warmer interface {
	WarmArtistInsight(ctx context.Context, token, trackID string)
}

// Pool manages background workers for async jobs.
type Pool struct {
	warmer     Warmer
	jobs       chan Job
	wg         sync.WaitGroup
	jobTimeout time.Duration
	ctx        context.Context
	cancel     context.CancelFunc

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a worker pool with the given queue size.
func NewPool(warmer Warmer, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		warmer:     warmer,
		jobs:       make(chan Job, queueSize),
		jobTimeout: time.Minute,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if p.ctx.Err() != nil {
					continue // stopping: drain without work
				}
				p.processJob(job)
			}
		}()
	}
}

// Stop cancels in-flight jobs, discards queued ones and waits for the workers
// to exit. Submit after Stop drops the job.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.cancel()
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports whether the job was accepted.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	default:
		logging.Warn().Str("track_id", job.TrackID).Msg("worker: queue full, dropping job")
		return false
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()

	start := time.Now()
	p.warmer.WarmArtistInsight(ctx, job.Token, job.TrackID)
	logging.Debug().
		Str("track_id", job.TrackID).
		Dur("elapsed", time.Since(start)).
		Msg("worker: artist insight warmed")
}
