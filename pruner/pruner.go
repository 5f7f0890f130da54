// Package pruner schedules sweeps of weak-subscriber registries. The core
// multicaster prunes lazily, only when it is read; a registry that is rarely
// emitted on keeps dead entry bookkeeping around. Deployments that want
// bounded staleness register their registries here and schedule sweeps by
// cron expression.
package pruner

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	rcron "github.com/robfig/cron/v3"
)

// Logger interface shared across packages
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Prunable is anything holding a weak-subscriber registry that can be swept.
// weakevent.Multicaster and emitter.Emitter satisfy it.
type Prunable interface {
	Prune() int
}

// Scheduler wraps cron functionality around registered prunable targets.
type Scheduler struct {
	mu           sync.Mutex
	cron         *rcron.Cron
	location     *time.Location
	errorHandler func(error)

	logger Logger
	parser Parser

	nextHandleID int64
	handles      map[int64]*sweepHandle
	targets      map[string]Prunable
}

// New creates a new scheduler instance with the provided options.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		location: time.Local,
		parser:   DefaultParser,
		errorHandler: func(err error) {
			log.Printf("error: %v\n", err)
		},
		handles: make(map[int64]*sweepHandle),
		targets: make(map[string]Prunable),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.cron = rcron.New(s.build()...)
	return s
}

// Register adds a named target to every scheduled sweep.
func (s *Scheduler) Register(name string, p Prunable) error {
	if p == nil {
		return errors.New("prunable target cannot be nil", errors.CategoryBadInput).
			WithTextCode("NIL_TARGET")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.targets[name]; ok {
		return errors.New(fmt.Sprintf("target %s already registered", name), errors.CategoryConflict).
			WithTextCode("TARGET_ALREADY_REGISTERED")
	}
	s.targets[name] = p
	return nil
}

// Deregister removes a named target. Unknown names are a no-op.
func (s *Scheduler) Deregister(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.targets, name)
}

// ScheduleSweep schedules a recurring sweep of all registered targets by
// cron expression.
func (s *Scheduler) ScheduleSweep(expression string) (Handle, error) {
	if expression == "" {
		return nil, errors.New("cron expression cannot be empty", errors.CategoryBadInput).
			WithTextCode("MISSING_EXPRESSION")
	}

	handle := s.newHandle()
	job := rcron.FuncJob(func() {
		if handle.Status() == SweepStatusCanceled {
			return
		}
		handle.setStatus(SweepStatusRunning)
		s.Sweep()
		if handle.Status() != SweepStatusCanceled {
			handle.setStatus(SweepStatusIdle)
		}
	})

	entryID, err := s.cron.AddJob(expression, job)
	if err != nil {
		handle.setTerminal(SweepStatusCanceled)
		wrapped := errors.Wrap(err, errors.CategoryBadInput, "failed to schedule sweep").
			WithTextCode("INVALID_EXPRESSION").
			WithMetadata(map[string]any{
				"expression": expression,
			})
		s.errorHandler(wrapped)
		return nil, wrapped
	}
	handle.entryID = int(entryID)
	s.storeHandle(handle)
	return handle, nil
}

// Start begins running scheduled sweeps.
func (s *Scheduler) Start(_ context.Context) error {
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and marks outstanding handles stopped.
func (s *Scheduler) Stop(_ context.Context) error {
	s.cron.Stop()

	var handles []*sweepHandle
	s.mu.Lock()
	for _, handle := range s.handles {
		handles = append(handles, handle)
	}
	s.handles = make(map[int64]*sweepHandle)
	s.mu.Unlock()

	for _, handle := range handles {
		if handle == nil {
			continue
		}
		if handle.entryID > 0 {
			s.cron.Remove(rcron.EntryID(handle.entryID))
		}
		handle.setTerminal(SweepStatusStopped)
	}
	return nil
}

// Sweep prunes every registered target once, logging non-trivial results.
// Scheduled sweeps call it on their cron cadence; callers may also invoke it
// directly.
func (s *Scheduler) Sweep() {
	s.mu.Lock()
	targets := make(map[string]Prunable, len(s.targets))
	for name, p := range s.targets {
		targets[name] = p
	}
	s.mu.Unlock()

	for name, p := range targets {
		if pruned := p.Prune(); pruned > 0 && s.logger != nil {
			s.logger.Info("swept registry", "target", name, "pruned", pruned)
		}
	}
}

func (s *Scheduler) newHandle() *sweepHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextHandleID++
	return &sweepHandle{
		scheduler: s,
		id:        s.nextHandleID,
		done:      make(chan struct{}),
		status:    SweepStatusScheduled,
	}
}

func (s *Scheduler) storeHandle(handle *sweepHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[handle.id] = handle
}

func (s *Scheduler) removeHandle(id int64) {
	s.mu.Lock()
	handle, ok := s.handles[id]
	if ok {
		delete(s.handles, id)
	}
	s.mu.Unlock()

	if ok && handle.entryID > 0 {
		s.cron.Remove(rcron.EntryID(handle.entryID))
	}
}

func (s *Scheduler) build() []rcron.Option {
	opts := []rcron.Option{rcron.WithLocation(s.location)}
	if s.parser == SecondsParser {
		opts = append(opts, rcron.WithSeconds())
	}
	return opts
}
