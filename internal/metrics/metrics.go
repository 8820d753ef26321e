package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// API aggregates client-side traffic counters for the REST adapter.
type API struct {
	Requests        Counter
	TransportErrors Counter
	Rejections      Counter
}

type Snapshot struct {
	Requests        uint64
	TransportErrors uint64
	Rejections      uint64
}

func (a *API) Snapshot() Snapshot {
	return Snapshot{
		Requests:        a.Requests.Load(),
		TransportErrors: a.TransportErrors.Load(),
		Rejections:      a.Rejections.Load(),
	}
}
