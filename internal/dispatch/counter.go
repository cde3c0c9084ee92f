package dispatch

import "sync/atomic"

// atomicCounter tracks a live gauge (active worker count) without a mutex.
type atomicCounter struct {
	v int64
}

func (c *atomicCounter) add(delta int) { atomic.AddInt64(&c.v, int64(delta)) }
func (c *atomicCounter) get() int      { return int(atomic.LoadInt64(&c.v)) }
