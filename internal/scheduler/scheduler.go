package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// JobFunc is one run of a periodic job.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	run      JobFunc
	cancel   context.CancelFunc
}

// Scheduler runs named jobs on fixed intervals until stopped.
type Scheduler struct {
	jobs   map[string]*job
	mu     sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add starts a job that runs immediately and then every interval. Adding a
// job under an existing name replaces it.
func (s *Scheduler) Add(name string, interval time.Duration, run JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[name]; ok {
		existing.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	j := &job{name: name, interval: interval, run: run, cancel: jobCancel}
	s.jobs[name] = j

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(jobCtx, j)
	}()

	log.Printf("Scheduled job %s every %s", name, interval)
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.execute(ctx, j)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, j)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	start := time.Now()
	if err := j.run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Job %s failed after %v: %v", j.name, time.Since(start), err)
	}
}

// Stop cancels every job and waits for running ones to return.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	s.jobs = make(map[string]*job)
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("Scheduler stopped")
}

// Status reports the number of active jobs and whether the scheduler runs.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"active_jobs": len(s.jobs),
		"running":     s.ctx.Err() == nil,
	}
}
