package fetch

import (
	"math/rand"
	"sync"
)

// agentPool hands out user agents randomly without immediate repeats, so
// consecutive requests never present the same identity twice in a row.
type agentPool struct {
	mu     sync.Mutex
	agents []string
	last   int
}

func newAgentPool(agents []string) *agentPool {
	return &agentPool{
		agents: append([]string(nil), agents...),
		last:   -1,
	}
}

// Next returns the user agent for the next request.
func (p *agentPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.agents) == 0 {
		return ""
	}
	if len(p.agents) == 1 {
		p.last = 0
		return p.agents[0]
	}
	if p.last < 0 {
		p.last = rand.Intn(len(p.agents))
		return p.agents[p.last]
	}
	idx := rand.Intn(len(p.agents) - 1)
	if idx >= p.last {
		idx++
	}
	p.last = idx
	return p.agents[idx]
}
