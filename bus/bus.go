// Package bus fans messages out over per-type weak emitters. Subscribers are
// held weakly, so a package may subscribe a receiver to the Default bus and
// simply let it go out of scope; publication stops reaching it after the next
// collection with no unsubscribe bookkeeping.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-weakevent"
	"github.com/goliatone/go-weakevent/emitter"
)

// Bus is a registry of per-message-type emitters.
type Bus struct {
	mu       sync.RWMutex
	emitters map[string]any
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		emitters: make(map[string]any),
	}
}

var Default = New()

// EmitterFor returns the bus emitter for T, creating it on first use.
// Options only apply on creation. Registering two message types that share a
// Type string but differ in payload is a conflict.
func EmitterFor[T Message](b *Bus, opts ...emitter.Option[T]) (*emitter.Emitter[T], error) {
	var msg T
	key := msg.Type()

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.emitters[key]; ok {
		em, ok := existing.(*emitter.Emitter[T])
		if !ok {
			return nil, typeMismatch(key)
		}
		return em, nil
	}

	em := emitter.New(opts...)
	b.emitters[key] = em
	return em, nil
}

// Subscribe registers the callable for T on the Default bus.
func Subscribe[T Message](c weakevent.Callable[T]) (emitter.Subscription, error) {
	return SubscribeOn(Default, c)
}

// SubscribeOn registers the callable for T on b.
func SubscribeOn[T Message](b *Bus, c weakevent.Callable[T]) (emitter.Subscription, error) {
	em, err := EmitterFor[T](b)
	if err != nil {
		return nil, err
	}
	return em.On(c)
}

// Publish fans msg out on the Default bus.
func Publish[T Message](ctx context.Context, msg T) error {
	return PublishOn(Default, ctx, msg)
}

// PublishOn fans msg out on b. Publishing a type nothing subscribes to is a
// no-op: with weak subscriptions an empty audience is the normal steady
// state, not an error.
func PublishOn[T Message](b *Bus, ctx context.Context, msg T) error {
	if err := validateMessage(msg); err != nil {
		return err
	}

	key := msg.Type()

	b.mu.RLock()
	existing, ok := b.emitters[key]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	em, ok := existing.(*emitter.Emitter[T])
	if !ok {
		return typeMismatch(key)
	}
	return em.Emit(ctx, msg)
}

func typeMismatch(key string) error {
	return errors.New(
		fmt.Sprintf("emitter for type %s already registered with a different payload", key),
		errors.CategoryConflict,
	).WithTextCode("EMITTER_TYPE_MISMATCH")
}
