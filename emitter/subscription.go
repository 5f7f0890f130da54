package emitter

import (
	"sync"

	"github.com/goliatone/go-weakevent"
)

type Subscription interface {
	Unsubscribe()
}

type subscription[E any] struct {
	emitter  *Emitter[E]
	callable weakevent.Callable[E]
	once     sync.Once
}

// Unsubscribe removes the combined callable. It is idempotent.
func (s *subscription[E]) Unsubscribe() {
	s.once.Do(func() {
		s.emitter.remove(s.callable)
	})
}
