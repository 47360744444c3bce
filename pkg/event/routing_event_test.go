package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInvalidateAccumulates(t *testing.T) {
	e := NewRoutingEvent(7, 1.0)
	assert.False(t, e.IsInvalidated())

	e.Invalidate(true, false)
	e.Invalidate(false, true)
	assert.True(t, e.IsInvalidated())

	p, c := e.Revalidate()
	assert.True(t, p)
	assert.True(t, c)
	assert.False(t, e.IsInvalidated())

	p, c = e.Revalidate()
	assert.False(t, p)
	assert.False(t, c)
}

func TestRoutingEventIdentity(t *testing.T) {
	a := NewRoutingEvent(1, 0)
	b := NewRoutingEvent(1, 0)
	assert.NotEqual(t, a.GetID(), b.GetID())

	a.Detach()
	assert.True(t, a.IsDetached())
	assert.False(t, b.IsDetached())
}

func TestRoutingEventRecord(t *testing.T) {
	e := NewRoutingEvent(3, 2.5)
	e.IncEventLevel()

	enc := zapcore.NewMapObjectEncoder()
	assert.NoError(t, e.MarshalLogObject(enc))
	assert.Equal(t, int64(3), enc.Fields["segment"])
	assert.Equal(t, uint32(1), enc.Fields["level"])
	assert.Equal(t, 2.5, enc.Fields["priority"])
}
