package weakevent

import (
	"context"
	"weak"
)

// invoker is the type-erased rebinding seam. It remembers which function to
// call independently of any live receiver and can produce a handler bound to
// whatever the weak reference currently resolves to.
type invoker[E any] interface {
	// resolve rebinds to the current receiver. ok is false once the
	// receiver has been collected; stateless invokers always resolve.
	resolve() (Handler[E], bool)
	// matches compares identity: receiver identity plus the handler's
	// code pointer. Captured state never participates in the comparison.
	matches(other invoker[E]) bool
}

type boundInvoker[R any, E any] struct {
	receiver weak.Pointer[R]
	method   func(*R, context.Context, E) error
	methodPC uintptr
}

func (b *boundInvoker[R, E]) resolve() (Handler[E], bool) {
	r := b.receiver.Value()
	if r == nil {
		return nil, false
	}
	return func(ctx context.Context, event E) error {
		return b.method(r, ctx, event)
	}, true
}

// matches relies on weak.Pointer equality, which is creation-pointer
// equality and therefore stable even after the receiver is collected.
func (b *boundInvoker[R, E]) matches(other invoker[E]) bool {
	o, ok := other.(*boundInvoker[R, E])
	if !ok {
		return false
	}
	return b.receiver == o.receiver && b.methodPC == o.methodPC
}

type funcInvoker[E any] struct {
	fn Handler[E]
	pc uintptr
}

func (f *funcInvoker[E]) resolve() (Handler[E], bool) {
	return f.fn, true
}

func (f *funcInvoker[E]) matches(other invoker[E]) bool {
	o, ok := other.(*funcInvoker[E])
	return ok && f.pc == o.pc
}
