package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("segment 42 not registered")
	err := WrapErrorf(orig, ErrNotFound, "negotiator.lookup")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, orig)
	assert.Equal(t, "negotiator.lookup: segment 42 not registered", err.Error())

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, ErrNotFound, e.Code())
}

func TestAbs(t *testing.T) {
	assert.Equal(t, int64(5), Abs(int64(-5)))
	assert.Equal(t, 2.5, Abs(-2.5))
	assert.Equal(t, 3, Abs(3))
}

func TestAssertPanic(t *testing.T) {
	assert.Panics(t, func() { AssertPanic(false, "boom") })
	assert.NotPanics(t, func() { AssertPanic(true, "boom") })
}
