package bus

import (
	"reflect"

	"github.com/goliatone/go-errors"
)

// Message is the interface published values must implement; Type keys the
// per-message emitter.
type Message interface {
	Type() string
}

// Validator is honored at the publish boundary for messages that carry
// their own validation.
type Validator interface {
	Validate() error
}

func isNilMessage(msg any) bool {
	if msg == nil {
		return true
	}

	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr {
		return false
	}

	return v.IsNil()
}

func validateMessage[T Message](msg T) error {
	if isNilMessage(msg) {
		return errors.New("nil message pointer", errors.CategoryValidation).
			WithTextCode("INVALID_MESSAGE")
	}

	if v, ok := any(msg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "message validation failed").
				WithTextCode("VALIDATION_FAILED")
		}
	}

	return nil
}
