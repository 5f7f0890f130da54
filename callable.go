// Package weakevent implements multicast callables whose receivers are held
// through weak references, so subscribing to an event never by itself keeps
// the subscriber alive. Collected subscribers are dropped from the invocation
// set the next time the registry is read.
package weakevent

import (
	"context"
	"reflect"
	"weak"
)

// Handler is the concrete shape every subscriber callback resolves to.
type Handler[E any] func(ctx context.Context, event E) error

// Callable is a first-class multicast value: an ordered list of constituents,
// each either bound to a weakly held receiver or a stateless function.
// Callables are immutable; build them with Bind and Func, compose them with
// Join, and hand them to a Multicaster.
type Callable[E any] struct {
	invokers []invoker[E]
	err      error
}

// Bind builds a single-constituent callable from a receiver and an unbound
// method, typically a method expression such as Bind(sub, (*Subscriber).Notify).
// The receiver is held through a weak pointer: holding the callable, or a
// Multicaster it was combined into, does not extend the receiver's lifetime.
//
// A nil receiver or nil method yields a malformed callable; the error surfaces
// when the callable reaches Combine or Remove.
func Bind[R any, E any](receiver *R, method func(*R, context.Context, E) error) Callable[E] {
	if receiver == nil {
		return Callable[E]{err: errNilReceiver}
	}
	if method == nil {
		return Callable[E]{err: errNilHandler}
	}
	return Callable[E]{invokers: []invoker[E]{&boundInvoker[R, E]{
		receiver: weak.Make(receiver),
		method:   method,
		methodPC: reflect.ValueOf(method).Pointer(),
	}}}
}

// Func builds a single-constituent callable with no receiver. Stateless
// constituents are always considered alive and are never pruned.
//
// Identity is the function's code pointer: two closures over the same
// function body are indistinguishable to Remove, matching the equality
// semantics of bound methods.
func Func[E any](fn Handler[E]) Callable[E] {
	if fn == nil {
		return Callable[E]{err: errNilHandler}
	}
	return Callable[E]{invokers: []invoker[E]{&funcInvoker[E]{
		fn: fn,
		pc: reflect.ValueOf(fn).Pointer(),
	}}}
}

// Join composes callables into one, preserving constituent order. Joining a
// malformed callable yields a malformed callable.
func Join[E any](callables ...Callable[E]) Callable[E] {
	var out Callable[E]
	for _, c := range callables {
		if c.err != nil {
			return Callable[E]{err: c.err}
		}
		out.invokers = append(out.invokers, c.invokers...)
	}
	return out
}

// Err reports why the callable is unusable, nil for well-formed callables.
func (c Callable[E]) Err() error {
	return c.err
}

// Len reports the number of constituents.
func (c Callable[E]) Len() int {
	return len(c.invokers)
}
