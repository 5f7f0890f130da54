// Package emitter provides the concurrency-safe publisher surface over a
// weakevent.Multicaster: subscriptions hand back unsubscribe handles, and
// emission resolves the live callable under the emitter's lock but invokes
// handlers outside it, so a handler may subscribe or unsubscribe safely.
package emitter

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-weakevent"
)

const (
	// ErrCodeHandlerPanic marks handler panics recovered during Emit.
	ErrCodeHandlerPanic = "HANDLER_PANIC"
)

// Emitter publishes events of type E to weakly held subscribers.
type Emitter[E any] struct {
	mu       sync.Mutex
	mc       *weakevent.Multicaster[E]
	logger   Logger
	failFast bool
}

// New applies the given options to a new emitter.
func New[E any](opts ...Option[E]) *Emitter[E] {
	e := &Emitter[E]{
		mc:     weakevent.NewMulticaster[E](),
		logger: noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// On subscribes the callable and returns a handle that removes exactly what
// was combined. Malformed callables are rejected and nothing is registered.
func (e *Emitter[E]) On(c weakevent.Callable[E]) (Subscription, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mc.Combine(c); err != nil {
		return nil, err
	}
	return &subscription[E]{emitter: e, callable: c}, nil
}

// Emit delivers event to every live subscriber in subscription order.
// Handler panics are recovered and reported as errors. Without WithFailFast,
// every live handler runs and failures are joined; with it, Emit returns on
// the first failure.
func (e *Emitter[E]) Emit(ctx context.Context, event E) error {
	e.mu.Lock()
	before := e.mc.Len()
	handlers := e.mc.LiveHandlers()
	pruned := before - e.mc.Len()
	failFast := e.failFast
	e.mu.Unlock()

	if pruned > 0 {
		e.logger.Debug("pruned collected subscribers", "pruned", pruned, "live", len(handlers))
	}

	var errs error
	for _, h := range handlers {
		if err := e.invoke(ctx, h, event); err != nil {
			if failFast {
				return err
			}
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Len reports registry size, dead entries included.
func (e *Emitter[E]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mc.Len()
}

// Prune sweeps collected subscribers eagerly and reports how many were dropped.
func (e *Emitter[E]) Prune() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mc.Prune()
}

func (e *Emitter[E]) invoke(ctx context.Context, h weakevent.Handler[E], event E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("recovered from handler panic", "panic", r)
			err = errors.New(fmt.Sprintf("handler panic: %v", r), errors.CategoryHandler).
				WithTextCode(ErrCodeHandlerPanic)
		}
	}()
	return h(ctx, event)
}

func (e *Emitter[E]) remove(c weakevent.Callable[E]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// the callable was validated when combined; Remove cannot fail here
	_ = e.mc.Remove(c)
}
