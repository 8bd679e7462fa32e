package listing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(20 * time.Millisecond)
	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(n)
		})
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	d.Stop()
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
}

func TestDebouncerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(40 * time.Millisecond)
	d.Stop()
	assert.Zero(t, calls.Load())
}

func TestDebouncerStopRejectsTriggers(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(time.Millisecond)
	d.Stop()
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncerFlushRunsPendingNow(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(time.Hour)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Flush()
	assert.Equal(t, int32(1), calls.Load())

	d.Flush()
	d.Stop()
	assert.Equal(t, int32(1), calls.Load())
}
