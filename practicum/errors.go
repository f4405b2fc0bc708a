package practicum

import (
	"errors"
	"fmt"
)

// Kind tags every recoverable failure of a polling cycle.
type Kind int

const (
	KindUpstream Kind = iota + 1
	KindMalformedResponse
	KindTypeMismatch
	KindMalformedItem
	KindUnknownStatus
)

var (
	ErrUpstream          = errors.New("upstream error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrMalformedItem     = errors.New("malformed homework")
	ErrUnknownStatus     = errors.New("unknown homework status")
)

var kindErrors = map[Kind]error{
	KindUpstream:          ErrUpstream,
	KindMalformedResponse: ErrMalformedResponse,
	KindTypeMismatch:      ErrTypeMismatch,
	KindMalformedItem:     ErrMalformedItem,
	KindUnknownStatus:     ErrUnknownStatus,
}

func (k Kind) String() string {
	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by every operation of this package.
type Error struct {
	Kind Kind
	Msg  string
	// Status is set for KindUnknownStatus.
	Status string
	Err    error
}

func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against the sentinel of its kind.
func (e *Error) Is(target error) bool {
	return kindErrors[e.Kind] == target
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf reports the kind of err, or 0 when err did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
