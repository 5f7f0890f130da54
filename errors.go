package weakevent

import (
	"github.com/goliatone/go-errors"
)

const (
	// ErrCodeInvalidCallable marks callables rejected at the Combine/Remove
	// boundary: nil receivers, nil handlers, or joins thereof.
	ErrCodeInvalidCallable = "INVALID_CALLABLE"
)

var (
	errNilReceiver = errors.New("bind requires a non-nil receiver", errors.CategoryValidation).
			WithTextCode(ErrCodeInvalidCallable)
	errNilHandler = errors.New("callable requires a non-nil handler", errors.CategoryValidation).
			WithTextCode(ErrCodeInvalidCallable)
)

func rejectCallable(op string, err error) error {
	return errors.Wrap(err, errors.CategoryValidation, op+" rejected malformed callable").
		WithTextCode(ErrCodeInvalidCallable)
}
