package pruner

import "sync"

type Subscription interface {
	Unsubscribe()
}

// SweepStatus reports a sweep handle state.
type SweepStatus string

const (
	SweepStatusScheduled SweepStatus = "scheduled"
	SweepStatusRunning   SweepStatus = "running"
	SweepStatusIdle      SweepStatus = "idle"
	SweepStatusCanceled  SweepStatus = "canceled"
	SweepStatusStopped   SweepStatus = "stopped"
)

// Handle extends Subscription with lifecycle observation.
type Handle interface {
	Subscription
	Status() SweepStatus
	Done() <-chan struct{}
	ID() int64
}

type sweepHandle struct {
	scheduler *Scheduler
	id        int64
	entryID   int
	done      chan struct{}

	mu     sync.RWMutex
	status SweepStatus
	once   sync.Once
}

func (h *sweepHandle) Unsubscribe() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		if h.scheduler != nil {
			h.scheduler.removeHandle(h.id)
		}
		h.setTerminal(SweepStatusCanceled)
	})
}

func (h *sweepHandle) Status() SweepStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

func (h *sweepHandle) Done() <-chan struct{} {
	return h.done
}

func (h *sweepHandle) ID() int64 {
	return h.id
}

func (h *sweepHandle) setStatus(status SweepStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if isTerminalStatus(h.status) {
		return
	}
	h.status = status
}

func (h *sweepHandle) setTerminal(status SweepStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if isTerminalStatus(h.status) {
		return
	}
	h.status = status
	close(h.done)
}

func isTerminalStatus(status SweepStatus) bool {
	return status == SweepStatusCanceled || status == SweepStatusStopped
}
