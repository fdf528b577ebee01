package graph

import "fmt"

// ActionKind names one category of edge action.
type ActionKind string

const (
	// ActionFollow marks the static follower relationship set on every
	// edge at construction time.
	ActionFollow ActionKind = "follow"
	// ActionPropagate marks a diffusion event for one information item.
	ActionPropagate ActionKind = "propagate"
)

// NoInfo is the Info value of action keys that are not scoped to an
// information item, such as follow.
const NoInfo = -1

// ActionKey identifies one edge action channel: a kind plus, for
// item-scoped actions, the information item id. It replaces the
// "<kind>_<item>" string convention with a value that can be compared and
// used as a map key directly.
type ActionKey struct {
	Kind ActionKind
	Info int
}

// FollowKey returns the key of the follow channel.
func FollowKey() ActionKey {
	return ActionKey{Kind: ActionFollow, Info: NoInfo}
}

// PropagateKey returns the key of the propagate channel for one item.
func PropagateKey(info int) ActionKey {
	return ActionKey{Kind: ActionPropagate, Info: info}
}

// String renders the key in the conventional "<kind>_<item>" form.
func (k ActionKey) String() string {
	if k.Info == NoInfo {
		return string(k.Kind)
	}
	return fmt.Sprintf("%s_%d", k.Kind, k.Info)
}
