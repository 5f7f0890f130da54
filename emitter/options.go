package emitter

// Option defines the functional option signature.
type Option[E any] func(*Emitter[E])

// WithLogger sets a custom logger for the emitter.
func WithLogger[E any](logger Logger) Option[E] {
	return func(e *Emitter[E]) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFailFast makes Emit return on the first handler error instead of
// running every live handler and joining failures.
func WithFailFast[E any]() Option[E] {
	return func(e *Emitter[E]) {
		e.failFast = true
	}
}
