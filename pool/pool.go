package pool

import (
	"context"
	"encoding/json"
	"time"
)

// Pool combines a Registry and a Balancer into the two operations a host
// managing several bound engines actually wants: call any connected peer
// (CallAny) and reach every connected peer (NotifyAll). Both are thin
// wrappers around per-engine Call/Notify — they add no wire semantics,
// only selection among already-correct engines.
type Pool struct {
	Registry *Registry
	Balancer Balancer
}

func New(balancer Balancer) *Pool {
	return &Pool{Registry: NewRegistry(), Balancer: balancer}
}

// CallAny picks one registered member via the pool's Balancer and issues
// Call on it.
func (p *Pool) CallAny(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error) {
	members := p.Registry.List()
	m, err := p.Balancer.Pick(members)
	if err != nil {
		return nil, err
	}
	return m.Engine.Call(ctx, method, params, timeout)
}

// NotifyAll sends a notification to every currently registered member.
// A single member's send failure does not stop delivery to the rest; all
// errors are returned together.
func (p *Pool) NotifyAll(method string, params any) []error {
	members := p.Registry.List()
	var errs []error
	for _, m := range members {
		if err := m.Engine.Notify(method, params); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
