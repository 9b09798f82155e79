package cron

import (
	"context"
	"time"
)

// Job is one read-only audit run by the stock monitor.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Schedule places a job on the monitor's pass cadence.
type Schedule struct {
	// Every runs the job on one pass out of Every, starting with the first
	// pass. Zero and one mean every pass.
	Every int
	// Timeout bounds a single run. Zero inherits the pass context.
	Timeout time.Duration
}

func (s Schedule) dueOn(pass int) bool {
	if s.Every <= 1 {
		return true
	}
	return pass%s.Every == 0
}

// Entry is a registered job with its schedule.
type Entry struct {
	Job      Job
	Schedule Schedule
}

// Registry holds the monitor's jobs in registration order.
type Registry struct {
	entries []Entry
}

// NewRegistry registers jobs that run on every pass without a timeout.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		registry.Register(job, Schedule{})
	}
	return registry
}

func (r *Registry) Register(job Job, schedule Schedule) {
	if job == nil {
		return
	}
	r.entries = append(r.entries, Entry{Job: job, Schedule: schedule})
}

// Entries returns a copy of every registered entry.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Due returns the entries scheduled on the zero-based pass number.
func (r *Registry) Due(pass int) []Entry {
	var due []Entry
	for _, e := range r.entries {
		if e.Schedule.dueOn(pass) {
			due = append(due, e)
		}
	}
	return due
}
