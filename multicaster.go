package weakevent

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Multicaster holds an insertion-ordered registry of subscriptions and
// offers multicast-delegate ergonomics over them: combine, remove, and
// produce the live composed handler.
//
// Pruning is lazy. Entries whose receiver has been collected are dropped
// when the registry is next scanned, by Remove, Live, LiveHandlers, or an
// explicit Prune. A multicaster that is never read keeps its dead entries;
// the receivers themselves are already collectible, so only the entry
// bookkeeping lingers.
//
// A Multicaster is not internally synchronized. Combine, Remove and the read
// operations must be externally serialized, the same single-writer discipline
// ordinary multicast callbacks require. The emitter package provides the
// locked surface.
type Multicaster[E any] struct {
	entries []invoker[E]
}

// NewMulticaster returns an empty multicaster. The zero value is also usable.
func NewMulticaster[E any]() *Multicaster[E] {
	return &Multicaster[E]{}
}

// Combine appends every constituent of c to the registry, preserving order.
// An empty callable is a no-op. A malformed callable is rejected with a
// validation error and the registry is left untouched.
func (m *Multicaster[E]) Combine(c Callable[E]) error {
	if c.err != nil {
		return rejectCallable("combine", c.err)
	}
	m.entries = append(m.entries, c.invokers...)
	return nil
}

// Remove drops, for each constituent of c, the first registry entry with the
// same identity: same receiver, same method, compared by identity rather than
// by any captured state. Constituents with no match are silently skipped,
// mirroring multicast-delegate remove semantics. Entries whose receiver has
// been collected are swept as a side effect of the scan.
func (m *Multicaster[E]) Remove(c Callable[E]) error {
	if c.err != nil {
		return rejectCallable("remove", c.err)
	}
	for _, target := range c.invokers {
		m.removeFirst(target)
	}
	return nil
}

// Live returns the composed callable over the surviving entries, invoking
// them in insertion order and joining their errors. The second return is
// false when no entry survives.
//
// The read mutates the registry: dead entries found during the scan are
// removed permanently.
func (m *Multicaster[E]) Live() (Handler[E], bool) {
	handlers := m.LiveHandlers()
	if len(handlers) == 0 {
		return nil, false
	}
	return func(ctx context.Context, event E) error {
		var errs error
		for _, h := range handlers {
			if err := h(ctx, event); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		return errs
	}, true
}

// LiveHandlers rebinds every surviving entry to its resolved receiver and
// returns the handlers in insertion order. Like Live, it prunes dead entries
// as a side effect.
func (m *Multicaster[E]) LiveHandlers() []Handler[E] {
	handlers := make([]Handler[E], 0, len(m.entries))
	kept := m.entries[:0]
	for _, e := range m.entries {
		h, ok := e.resolve()
		if !ok {
			continue
		}
		kept = append(kept, e)
		handlers = append(handlers, h)
	}
	m.truncate(kept)
	return handlers
}

// Prune sweeps dead entries eagerly and reports how many were dropped.
func (m *Multicaster[E]) Prune() int {
	before := len(m.entries)
	kept := m.entries[:0]
	for _, e := range m.entries {
		if _, ok := e.resolve(); ok {
			kept = append(kept, e)
		}
	}
	m.truncate(kept)
	return before - len(m.entries)
}

// Len reports the registry size, dead entries included.
func (m *Multicaster[E]) Len() int {
	return len(m.entries)
}

func (m *Multicaster[E]) removeFirst(target invoker[E]) {
	kept := m.entries[:0]
	removed := false
	for _, e := range m.entries {
		if _, ok := e.resolve(); !ok {
			continue
		}
		if !removed && e.matches(target) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.truncate(kept)
}

// truncate installs the kept prefix and clears the tail so dropped invokers
// are not pinned by the backing array.
func (m *Multicaster[E]) truncate(kept []invoker[E]) {
	for i := len(kept); i < len(m.entries); i++ {
		m.entries[i] = nil
	}
	m.entries = kept
}
