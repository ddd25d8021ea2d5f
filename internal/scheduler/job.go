package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// ErrUnknownJob is returned for a job name that was never registered.
	ErrUnknownJob = errors.New("unknown job")

	// ErrDuplicateJob is returned when registering a name twice.
	ErrDuplicateJob = errors.New("job already registered")

	// ErrJobBusy is returned by RunNow when the job is running or already queued.
	ErrJobBusy = errors.New("job is already running or queued")

	// ErrNotRunning is returned by RunNow before Start or after Stop.
	ErrNotRunning = errors.New("scheduler is not running")

	// ErrAlreadyStarted is returned when registering after Start.
	ErrAlreadyStarted = errors.New("scheduler already started")
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// JobFunc adapts a function to the Job interface.
func JobFunc(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// JobStats is a point-in-time view of one job.
type JobStats struct {
	Name string
	// Runs counts completed executions, successful or not.
	Runs     int64
	Failures int64
	// Skipped counts triggers that arrived while the job was busy.
	Skipped int64
	// Dropped counts ticks discarded for exceeding the misfire grace.
	Dropped      int64
	LastError    string
	LastRun      time.Time
	LastDuration time.Duration
	Running      bool
}

// RunState tracks whether a job is in flight or queued.
type RunState struct {
	mu       sync.Mutex
	inflight int
}

func (s *RunState) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		return false
	}
	s.inflight++
	return true
}

func (s *RunState) release() {
	s.mu.Lock()
	if s.inflight > 0 {
		s.inflight--
	}
	s.mu.Unlock()
}

// Busy reports whether the job is in flight or queued.
func (s *RunState) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// tick carries the time the trigger was planned for, not when it was
// observed. Cron ticks use the entry's scheduled slot.
type tick struct {
	firedAt time.Time
	source  string
}

type entry struct {
	job    Job
	cronID cron.EntryID
	state  RunState
	queue  chan tick

	mu    sync.Mutex
	stats JobStats
}

func (e *entry) record(fn func(*JobStats)) {
	e.mu.Lock()
	fn(&e.stats)
	e.mu.Unlock()
}

func (e *entry) snapshot() JobStats {
	e.mu.Lock()
	st := e.stats
	e.mu.Unlock()
	st.Name = e.job.Name()
	return st
}
