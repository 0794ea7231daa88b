package pool

import "sync/atomic"

// RoundRobin distributes calls evenly across all members in order, using
// an atomic counter for lock-free, goroutine-safe rotation. Best for
// members with similar capacity.
type RoundRobin struct {
	counter int64
}

func (b *RoundRobin) Pick(members []Member) (Member, error) {
	if len(members) == 0 {
		return Member{}, errNoMembers()
	}
	index := atomic.AddInt64(&b.counter, 1) % int64(len(members))
	return members[index], nil
}

func (b *RoundRobin) Name() string { return "RoundRobin" }
