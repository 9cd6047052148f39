package attendance

import "sync"

// inflightGuard enforces one in-flight mutation per member. It lives in the
// service rather than any caller, so the guarantee holds no matter which
// surface triggers the mutation.
type inflightGuard struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{members: make(map[string]struct{})}
}

// acquire reserves the member for a mutation. It returns false when another
// mutation for the same member has not resolved yet.
func (g *inflightGuard) acquire(memberID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.members[memberID]; busy {
		return false
	}
	g.members[memberID] = struct{}{}
	return true
}

func (g *inflightGuard) release(memberID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.members, memberID)
}
