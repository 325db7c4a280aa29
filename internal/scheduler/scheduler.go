// Package scheduler runs the collection cycles on independent intervals,
// with ordering gates so dependent cycles wait for their inputs to exist.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a periodic job. Run is invoked once at start and then every
// Interval. A task with WaitFor set does not run until the named gate has
// been signaled; a task with Signals set opens that gate after each run.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
	WaitFor  string
	Signals  string
}

// Scheduler owns the task loops and their shared gates.
type Scheduler struct {
	tasks  []Task
	logger *slog.Logger

	mu    sync.Mutex
	gates map[string]chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		logger: logger,
		gates:  make(map[string]chan struct{}),
	}
}

// Add registers a task. Must be called before Start.
func (s *Scheduler) Add(task Task) {
	s.tasks = append(s.tasks, task)
	if task.WaitFor != "" {
		s.gate(task.WaitFor)
	}
	if task.Signals != "" {
		s.gate(task.Signals)
	}
}

// gate returns the named gate, creating it if needed.
func (s *Scheduler) gate(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[name]
	if !ok {
		g = make(chan struct{})
		s.gates[name] = g
	}
	return g
}

// signal opens the named gate. Opening an already-open gate is a no-op.
func (s *Scheduler) signal(name string) {
	g := s.gate(name)
	select {
	case <-g:
	default:
		close(g)
	}
}

// Start launches one loop per registered task.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.run(task)
	}

	s.logger.Info("scheduler started", "tasks", len(s.tasks))
	return nil
}

// Stop cancels all task loops and waits for them to drain.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is a single task's loop: wait for the task's gate, run immediately,
// then run on every tick.
func (s *Scheduler) run(task Task) {
	defer s.wg.Done()

	if task.WaitFor != "" {
		select {
		case <-s.gate(task.WaitFor):
		case <-s.ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	s.cycle(task)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.cycle(task)
		}
	}
}

// cycle runs the task once and opens its gate. The gate opens even when the
// cycle did no useful work: downstream tasks guard their own inputs, and a
// permanently closed gate would wedge the pipeline on one bad first cycle.
func (s *Scheduler) cycle(task Task) {
	start := time.Now()
	task.Run(s.ctx)
	s.logger.Debug("task cycle finished",
		"task", task.Name,
		"duration", time.Since(start),
	)

	if task.Signals != "" {
		s.signal(task.Signals)
	}
}
