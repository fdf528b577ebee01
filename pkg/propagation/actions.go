package propagation

import (
	"github.com/todoaskit/propy/pkg/graph"
)

// ActionCatalog is the set of action keys an engine recognizes. It is
// built once at construction time: the follow channel, one propagate
// channel per information item, and one channel per custom action kind per
// item. Matrix queries are validated against this set.
type ActionCatalog struct {
	keys  map[graph.ActionKey]struct{}
	order []graph.ActionKey
}

func newActionCatalog(numInfo int, userActions []graph.ActionKind) *ActionCatalog {
	c := &ActionCatalog{keys: make(map[graph.ActionKey]struct{})}
	c.add(graph.FollowKey())
	for info := 0; info < numInfo; info++ {
		c.add(graph.PropagateKey(info))
	}
	for _, kind := range userActions {
		for info := 0; info < numInfo; info++ {
			c.add(graph.ActionKey{Kind: kind, Info: info})
		}
	}
	return c
}

func (c *ActionCatalog) add(key graph.ActionKey) {
	if _, ok := c.keys[key]; ok {
		return
	}
	c.keys[key] = struct{}{}
	c.order = append(c.order, key)
}

// Contains reports whether the key is registered.
func (c *ActionCatalog) Contains(key graph.ActionKey) bool {
	_, ok := c.keys[key]
	return ok
}

// Keys returns all registered keys in registration order.
func (c *ActionCatalog) Keys() []graph.ActionKey {
	keys := make([]graph.ActionKey, len(c.order))
	copy(keys, c.order)
	return keys
}

// Len returns the number of registered keys.
func (c *ActionCatalog) Len() int {
	return len(c.order)
}
