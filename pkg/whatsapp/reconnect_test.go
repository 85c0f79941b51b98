package whatsapp

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectSchedulerFiresOnce(t *testing.T) {
	var fired int64
	r := newReconnectScheduler(20*time.Millisecond, func() {
		atomic.AddInt64(&fired, 1)
	})

	r.Schedule()
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestReconnectSchedulerCoalescesBursts(t *testing.T) {
	var fired int64
	r := newReconnectScheduler(50*time.Millisecond, func() {
		atomic.AddInt64(&fired, 1)
	})

	// Overlapping disconnects before the delay elapses collapse into one run.
	for i := 0; i < 5; i++ {
		r.Schedule()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestReconnectSchedulerCancel(t *testing.T) {
	var fired int64
	r := newReconnectScheduler(20*time.Millisecond, func() {
		atomic.AddInt64(&fired, 1)
	})

	r.Schedule()
	r.Cancel()
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int64(0), atomic.LoadInt64(&fired))
}

func TestReconnectSchedulerReschedulesAfterFire(t *testing.T) {
	var fired int64
	r := newReconnectScheduler(10*time.Millisecond, func() {
		atomic.AddInt64(&fired, 1)
	})

	r.Schedule()
	time.Sleep(50 * time.Millisecond)
	r.Schedule()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int64(2), atomic.LoadInt64(&fired))
}
