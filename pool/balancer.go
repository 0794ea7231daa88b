package pool

import "fmt"

// Balancer picks one Member from a set of candidates. Pick is called on
// every Pool.CallAny, so implementations must be goroutine-safe.
type Balancer interface {
	Pick(members []Member) (Member, error)
	Name() string
}

func errNoMembers() error {
	return fmt.Errorf("pool: no members available")
}
