package util

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/Negotiatorx/pkg"
	"golang.org/x/exp/constraints"
)

// error

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

// Is lets errors.Is match on the error code as well as the wrapped error.
func (e *Error) Is(target error) bool {
	return e.code != nil && e.code == target
}

var (
	ErrInternal      = errors.New("internal negotiation error")
	ErrNotFound      = errors.New("requested item is not found")
	ErrConflict      = errors.New("item already exist")
	ErrBadParamInput = errors.New("given param is not valid")
)

func Abs[T constraints.Signed | constraints.Float](a T) T {
	if a < 0 {
		return -a
	}
	return a
}

func StopConcurrentOperation(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func AssertPanic(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// DebugAssert is AssertPanic in debug builds and a no-op otherwise.
func DebugAssert(cond bool, msg string) {
	if pkg.DEBUG {
		AssertPanic(cond, msg)
	}
}
