package pruner

import "time"

// Parser represents a cron expression parser type
type Parser int

const (
	DefaultParser Parser = iota
	SecondsParser
)

// Option defines the functional option type for Scheduler
type Option func(*Scheduler)

// WithLocation sets the timezone location for the scheduler
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets a custom logger for the scheduler
func WithLogger(logger Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithErrorHandler sets the handler invoked when scheduling fails
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.errorHandler = fn
		}
	}
}

// WithParser selects the cron expression parser
func WithParser(parser Parser) Option {
	return func(s *Scheduler) {
		s.parser = parser
	}
}
