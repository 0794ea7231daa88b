// Package pool supports hosts that hold more than one bound *engine.Engine
// at once (a WebSocket hub, a pool of subprocess pipes) and want to pick
// one connected peer to call, or reach every connected peer with a
// notification, without tracking engine handles by hand. Every
// single-connection operation still lives on *engine.Engine directly —
// this package only adds selection among several.
package pool

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Member is one entry tracked by a Registry: a bound engine plus the
// weight a Balancer uses to pick among several.
type Member struct {
	Id     string
	Engine CallNotifier
	Weight int
}

// CallNotifier is the slice of *engine.Engine a Pool actually needs. It
// exists so pool doesn't have to import engine just to name a type, and
// so tests can stand in a fake.
type CallNotifier interface {
	Call(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error)
	Notify(method string, params any) error
}

// Registry tracks currently-bound members by an opaque connection id, the
// same shape as a remote-discovery registry but in-memory only: there is
// no TTL or lease, since persisting pending membership across a process
// restart is out of scope for a single connection's engine, let alone a
// pool of them.
type Registry struct {
	mu      sync.RWMutex
	members map[string]Member
	watchMu sync.Mutex
	watched []chan []Member
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[string]Member)}
}

// Register adds or replaces a member under id.
func (r *Registry) Register(m Member) {
	r.mu.Lock()
	r.members[m.Id] = m
	r.mu.Unlock()
	r.notifyWatchers()
}

// Deregister removes a member. A deregister of an id that was never
// registered is a no-op.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	delete(r.members, id)
	r.mu.Unlock()
	r.notifyWatchers()
}

// List returns a snapshot of the currently registered members, order
// unspecified.
func (r *Registry) List() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

// Watch returns a channel that receives the full member list after every
// Register/Deregister. The channel is buffered size 1 and drops a pending
// update rather than block the registry if the watcher falls behind.
func (r *Registry) Watch() <-chan []Member {
	ch := make(chan []Member, 1)
	r.watchMu.Lock()
	r.watched = append(r.watched, ch)
	r.watchMu.Unlock()
	return ch
}

func (r *Registry) notifyWatchers() {
	snapshot := r.List()
	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	for _, ch := range r.watched {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
