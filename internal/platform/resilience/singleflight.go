package resilience

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrPanicked is returned to every caller sharing a call whose function panicked.
var ErrPanicked = errors.New("singleflight function panicked")

// SingleFlight deduplicates concurrent calls for the same key.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Do runs fn once per key among concurrent callers. The third return
// reports whether the result was shared with another caller.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	g.run(c, key, fn)

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}

func (g *SingleFlight) run(c *call, key string, fn func() (any, error)) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.val = nil
			c.err = errors.Wrapf(ErrPanicked, "key %q: %v", key, r)
		}
	}()

	c.val, c.err = fn()
}
