package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/todoapi/server/internal/config"
	"github.com/todoapi/server/internal/platform/logger"
)

// Scheduler triggers registered jobs every interval.
type Scheduler struct {
	cfg    config.SchedulerConfig
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*entry
	cron    *cron.Cron
	running bool
	stopped bool

	// stopCh tells workers to exit once their current run finishes.
	stopCh chan struct{}
	// runCtx is the parent of every run; it is cancelled only if Stop
	// gives up waiting.
	runCtx    context.Context
	cancelRun context.CancelFunc
	wg        sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the clock used to stamp and age ticks.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a Scheduler. Jobs must be registered before Start.
func New(cfg config.SchedulerConfig, logger *slog.Logger, opts ...Option) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", cfg.Interval)
	}
	if cfg.MisfireGrace <= 0 {
		return nil, fmt.Errorf("scheduler misfire grace must be positive, got %s", cfg.MisfireGrace)
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cfg:       cfg,
		loc:       loc,
		now:       time.Now,
		logger:    logger.With("component", "scheduler"),
		jobs:      make(map[string]*entry),
		cron:      cron.New(cron.WithLocation(loc)),
		stopCh:    make(chan struct{}),
		runCtx:    runCtx,
		cancelRun: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register adds a job triggered every configured interval.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.stopped {
		return ErrAlreadyStarted
	}
	name := job.Name()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	e := &entry{job: job, queue: make(chan tick, 1)}
	s.jobs[name] = e
	e.cronID = s.cron.Schedule(cron.Every(s.cfg.Interval), cron.FuncJob(func() {
		s.trigger(e, "cron", s.plannedAt(e))
	}))

	s.logger.Debug("job registered", "job", name, "interval", s.cfg.Interval)
	return nil
}

// Start launches one worker per job and the cron clock. When the scheduler
// is disabled in configuration Start does nothing.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || s.stopped {
		return ErrAlreadyStarted
	}
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	for _, e := range s.jobs {
		s.wg.Add(1)
		go s.worker(e)
	}
	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started",
		"jobs", len(s.jobs),
		"interval", s.cfg.Interval,
		"misfire_grace", s.cfg.MisfireGrace,
		"timezone", s.loc.String())
	return nil
}

// Stop halts the cron clock and waits for in-flight runs. If ctx expires
// first, the runs' contexts are cancelled and Stop returns ctx.Err().
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	wasRunning := s.running
	s.running = false
	s.stopped = true
	s.mu.Unlock()

	if !wasRunning {
		s.cancelRun()
		return nil
	}

	<-s.cron.Stop().Done()
	close(s.stopCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelRun()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancelRun()
		<-done
		s.logger.Warn("scheduler stop timed out, in-flight runs cancelled")
		return ctx.Err()
	}
}

// RunNow queues an immediate run of the named job.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	running := s.running
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !running {
		return ErrNotRunning
	}
	if !s.trigger(e, "manual", s.now()) {
		return ErrJobBusy
	}
	return nil
}

// Snapshot returns the stats of every job, sorted by name.
func (s *Scheduler) Snapshot() []JobStats {
	s.mu.Lock()
	entries := make([]*entry, 0, len(s.jobs))
	for _, e := range s.jobs {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	out := make([]JobStats, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// plannedAt returns the slot cron last fired e for. The run loop updates
// Prev before it serves Entry, so inside the job callback this is the slot
// being fired.
func (s *Scheduler) plannedAt(e *entry) time.Time {
	if prev := s.cron.Entry(e.cronID).Prev; !prev.IsZero() {
		return prev
	}
	return s.now()
}

// trigger enqueues a tick planned for plannedAt unless the job is already
// running or queued.
func (s *Scheduler) trigger(e *entry, source string, plannedAt time.Time) bool {
	if !e.state.tryAcquire() {
		e.record(func(st *JobStats) { st.Skipped++ })
		s.logger.Debug("trigger skipped, job busy", "job", e.job.Name(), "source", source)
		return false
	}

	// Holding the slot means the queue is empty.
	e.queue <- tick{firedAt: plannedAt, source: source}
	return true
}

func (s *Scheduler) worker(e *entry) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		case t := <-e.queue:
			s.execute(e, t)
		}
	}
}

// execute runs one tick. The RunState slot taken by trigger is released
// when execute returns.
func (s *Scheduler) execute(e *entry, t tick) {
	defer e.state.release()

	name := e.job.Name()
	start := s.now()
	delay := start.Sub(t.firedAt)
	if delay < 0 {
		delay = 0
	}

	if delay > s.cfg.MisfireGrace {
		e.record(func(st *JobStats) { st.Dropped++ })
		s.logger.Warn("stale tick dropped",
			"job", name,
			"source", t.source,
			"late_by", delay,
			"misfire_grace", s.cfg.MisfireGrace)
		return
	}

	runID := uuid.NewString()
	runLog := s.logger.With("job", name, "run_id", runID)
	ctx := logger.WithLogger(s.runCtx, runLog)

	e.record(func(st *JobStats) { st.Running = true })
	runLog.Debug("job started", "source", t.source, "late_by", delay)

	err := s.safeRun(ctx, e.job, runLog)
	elapsed := s.now().Sub(start)

	e.record(func(st *JobStats) {
		st.Running = false
		st.Runs++
		st.LastRun = start
		st.LastDuration = elapsed
		if err != nil {
			st.Failures++
			st.LastError = err.Error()
		} else {
			st.LastError = ""
		}
	})

	if err != nil {
		runLog.Error("job failed", "error", err, "duration", elapsed)
		return
	}
	runLog.Debug("job finished", "duration", elapsed)
}

func (s *Scheduler) safeRun(ctx context.Context, job Job, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error("job panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	return job.Run(ctx)
}
