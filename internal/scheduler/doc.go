// Package scheduler drives periodic jobs.
//
// Triggers come from a robfig/cron clock. Each job owns a single-slot tick
// queue and a RunState, so a job is never running and queued more than once
// at a time: a trigger that arrives while the previous one is still
// outstanding is skipped. A worker goroutine per job dequeues ticks and
// drops those that waited longer than the misfire grace instead of running
// them late. Errors and panics are recorded and never stop the worker.
package scheduler
