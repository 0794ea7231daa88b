package pool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeEngine struct {
	id      string
	notify  []string
	callErr error
}

func (f *fakeEngine) Call(ctx context.Context, method string, params any, timeout time.Duration) (json.RawMessage, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return json.RawMessage(`"` + f.id + `"`), nil
}

func (f *fakeEngine) Notify(method string, params any) error {
	f.notify = append(f.notify, method)
	return f.callErr
}

func TestRegistryRegisterDeregisterList(t *testing.T) {
	r := NewRegistry()
	r.Register(Member{Id: "a", Engine: &fakeEngine{id: "a"}})
	r.Register(Member{Id: "b", Engine: &fakeEngine{id: "b"}})

	if len(r.List()) != 2 {
		t.Fatalf("List() len = %d, want 2", len(r.List()))
	}

	r.Deregister("a")
	list := r.List()
	if len(list) != 1 || list[0].Id != "b" {
		t.Fatalf("List() after deregister = %+v", list)
	}
}

func TestRegistryWatchReceivesUpdates(t *testing.T) {
	r := NewRegistry()
	watch := r.Watch()

	r.Register(Member{Id: "a", Engine: &fakeEngine{id: "a"}})

	select {
	case members := <-watch:
		if len(members) != 1 || members[0].Id != "a" {
			t.Fatalf("watch update = %+v", members)
		}
	case <-time.After(time.Second):
		t.Fatal("no watch update received")
	}
}

func TestRoundRobinCyclesThroughMembers(t *testing.T) {
	members := []Member{{Id: "a"}, {Id: "b"}, {Id: "c"}}
	b := &RoundRobin{}

	seen := make(map[string]int)
	for i := 0; i < 9; i++ {
		m, err := b.Pick(members)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		seen[m.Id]++
	}
	for _, id := range []string{"a", "b", "c"} {
		if seen[id] != 3 {
			t.Fatalf("seen[%s] = %d, want 3", id, seen[id])
		}
	}
}

func TestRoundRobinNoMembers(t *testing.T) {
	b := &RoundRobin{}
	if _, err := b.Pick(nil); err == nil {
		t.Fatal("expected an error picking from an empty member list")
	}
}

func TestWeightedRandomFavorsHeavierMember(t *testing.T) {
	members := []Member{{Id: "light", Weight: 1}, {Id: "heavy", Weight: 99}}
	b := &WeightedRandom{}

	counts := make(map[string]int)
	for i := 0; i < 500; i++ {
		m, err := b.Pick(members)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		counts[m.Id]++
	}
	if counts["heavy"] < counts["light"] {
		t.Fatalf("expected heavy to be picked more often, got %+v", counts)
	}
}

func TestConsistentHashStableForSameKey(t *testing.T) {
	members := []Member{{Id: "a"}, {Id: "b"}, {Id: "c"}}
	h := NewConsistentHash()

	first, err := h.PickFor("session-42", members)
	if err != nil {
		t.Fatalf("PickFor: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := h.PickFor("session-42", members)
		if err != nil {
			t.Fatalf("PickFor: %v", err)
		}
		if again.Id != first.Id {
			t.Fatalf("PickFor(%q) = %s, want stable %s", "session-42", again.Id, first.Id)
		}
	}
}

func TestPoolCallAnyUsesBalancer(t *testing.T) {
	p := New(&RoundRobin{})
	p.Registry.Register(Member{Id: "only", Engine: &fakeEngine{id: "only"}})

	result, err := p.CallAny(context.Background(), "ping", nil, time.Second)
	if err != nil {
		t.Fatalf("CallAny: %v", err)
	}
	var got string
	if err := json.Unmarshal(result, &got); err != nil || got != "only" {
		t.Fatalf("result = %s, want \"only\"", result)
	}
}

func TestPoolCallAnyNoMembers(t *testing.T) {
	p := New(&RoundRobin{})
	if _, err := p.CallAny(context.Background(), "ping", nil, time.Second); err == nil {
		t.Fatal("expected an error with no registered members")
	}
}

func TestPoolNotifyAllReachesEveryMember(t *testing.T) {
	p := New(&RoundRobin{})
	a := &fakeEngine{id: "a"}
	b := &fakeEngine{id: "b"}
	p.Registry.Register(Member{Id: "a", Engine: a})
	p.Registry.Register(Member{Id: "b", Engine: b})

	if errs := p.NotifyAll("ping", nil); len(errs) != 0 {
		t.Fatalf("NotifyAll errs = %v", errs)
	}
	if len(a.notify) != 1 || len(b.notify) != 1 {
		t.Fatalf("a.notify=%v b.notify=%v, want one each", a.notify, b.notify)
	}
}

func TestPoolNotifyAllCollectsErrors(t *testing.T) {
	p := New(&RoundRobin{})
	boom := errors.New("gone")
	p.Registry.Register(Member{Id: "bad", Engine: &fakeEngine{id: "bad", callErr: boom}})
	good := &fakeEngine{id: "good"}
	p.Registry.Register(Member{Id: "good", Engine: good})

	errs := p.NotifyAll("ping", nil)
	if len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Fatalf("NotifyAll errs = %v, want exactly [boom]", errs)
	}
	if len(good.notify) != 1 {
		t.Fatalf("good.notify = %v, want one delivery despite bad's failure", good.notify)
	}
}
