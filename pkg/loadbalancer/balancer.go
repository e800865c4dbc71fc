package loadbalancer

import "sync"

// RoundRobin cycles through a fixed set of upstream targets.
type RoundRobin struct {
	targets []string
	mu      sync.Mutex
	next    int
}

func New(targets []string) *RoundRobin {
	return &RoundRobin{targets: targets}
}

// NextTarget returns the next upstream in rotation, or "" when no targets
// are configured.
func (rr *RoundRobin) NextTarget() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.targets) == 0 {
		return ""
	}
	target := rr.targets[rr.next]
	rr.next = (rr.next + 1) % len(rr.targets)
	return target
}

func (rr *RoundRobin) Len() int {
	return len(rr.targets)
}
