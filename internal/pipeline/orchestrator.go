package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
)

// Orchestrator manages the relevance run queue and worker pool.
type Orchestrator struct {
	runs   *RunStore
	queue  chan *Run
	engine *Engine
	log    *slog.Logger
	cfg    config.Config
	stats  *RunStats

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline. Start must be called before
// submitting runs.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		runs:   NewRunStore(cfg.RunTTL),
		queue:  make(chan *Run, cfg.MaxQueueSize),
		engine: NewEngine(log, cfg.MaxConcurrentExtract, cfg.MaxConcurrentScore, cfg.PDFFallbackPdftotext),
		log:    log,
		cfg:    cfg,
		stats:  NewRunStats(time.Hour),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case run, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, run)
				}
			}
		}()
	}

	// Start run store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.runs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submissions arriving after
// Stop are rejected rather than racing the queue close.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.stopped {
		o.stopped = true
		close(o.queue)
	}
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// process executes one run and records its outcome.
func (o *Orchestrator) process(ctx context.Context, run *Run) {
	log := o.log.With("run_id", run.ID)
	start := time.Now()

	res, err := o.engine.Execute(ctx, run.Request(), func(phase string) {
		run.SetStatus(RunStatus(phase))
	})
	if err != nil {
		log.Error("run failed", "error", err)
		run.Fail(err.Error())
		return
	}

	run.Complete(output.Consolidate(res, run.Request().Options.SurfacedSections), res.Skipped)
	o.stats.Record(time.Since(start).Milliseconds())
	log.Info("run completed",
		"documents", len(res.InputDocuments),
		"skipped", len(res.Skipped),
		"sections", len(res.Sections),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Submit queues a new run for processing.
func (o *Orchestrator) Submit(run *Run) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		run.Fail("shutting down")
		return fmt.Errorf("orchestrator is stopped")
	}
	o.runs.Put(run)
	select {
	case o.queue <- run:
		return nil
	default:
		run.Fail("queue full")
		return fmt.Errorf("run queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetRun returns a run by ID.
func (o *Orchestrator) GetRun(id string) *Run {
	return o.runs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats exposes run latency aggregates for the API.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}
