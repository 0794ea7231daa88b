package pool

import (
	"fmt"
	"hash/crc32"
	"sort"
)

// ConsistentHash maps a caller-chosen key to a member using a hash ring,
// so the same key keeps landing on the same member across calls (until
// the ring's membership changes) — useful for peers that hold
// per-session state a retried call needs to keep hitting.
//
// It does not implement Balancer: picking requires a key, not just the
// candidate list, so callers that want hash-based selection call PickFor
// directly instead of going through Pool.CallAny.
type ConsistentHash struct {
	replicas int
	ring     []uint32
	nodes    map[uint32]Member
}

// NewConsistentHash builds a hash ring with 100 virtual nodes per member,
// rebuilt from members on every call so membership changes take effect
// immediately.
func NewConsistentHash() *ConsistentHash {
	return &ConsistentHash{replicas: 100}
}

func (h *ConsistentHash) build(members []Member) {
	h.ring = h.ring[:0]
	h.nodes = make(map[uint32]Member, len(members)*h.replicas)
	for _, m := range members {
		for i := 0; i < h.replicas; i++ {
			key := fmt.Sprintf("%s#%d", m.Id, i)
			hash := crc32.ChecksumIEEE([]byte(key))
			h.ring = append(h.ring, hash)
			h.nodes[hash] = m
		}
	}
	sort.Slice(h.ring, func(i, j int) bool { return h.ring[i] < h.ring[j] })
}

// PickFor returns the member responsible for key among the given
// members.
func (h *ConsistentHash) PickFor(key string, members []Member) (Member, error) {
	if len(members) == 0 {
		return Member{}, errNoMembers()
	}
	h.build(members)

	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(h.ring), func(i int) bool { return h.ring[i] >= hash })
	if idx == len(h.ring) {
		idx = 0
	}
	return h.nodes[h.ring[idx]], nil
}

func (h *ConsistentHash) Name() string { return "ConsistentHash" }
