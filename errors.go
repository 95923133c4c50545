package currency

import (
	"errors"
)

var (
	ErrInvalidSourceCurrency = errors.New("invalid source currency")
	ErrInvalidTargetCurrency = errors.New("invalid target currency")
	ErrUnavailable           = errors.New("exchange rates are unavailable")
	ErrInvalidCode           = errors.New("currency code is empty")
)

// UnavailableError carries a diagnostic detail, callers should only match it
// with errors.Is(err, ErrUnavailable).
type UnavailableError struct {
	Detail string
	Err    error
}

func Unavailable(detail string, err error) error {
	return &UnavailableError{Detail: detail, Err: err}
}

func (e *UnavailableError) Error() string {
	if e.Detail == "" {
		return ErrUnavailable.Error()
	}

	return ErrUnavailable.Error() + ": " + e.Detail
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
