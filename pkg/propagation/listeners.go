package propagation

import (
	"fmt"

	"github.com/todoaskit/propy/pkg/logging"
)

// EventPropagate is the event type fired for every diffusion event during
// replay.
const EventPropagate = "propagate"

// ListenerFunc is an externally supplied side-effecting callback invoked
// during replay. kwargs are the keyword arguments bound at registration.
// A non-nil error aborts the replay and propagates to the caller.
type ListenerFunc func(e *Engine, ev Event, info int, kwargs map[string]any) error

// AddEventListener registers a callback for an event type together with
// bound keyword arguments. Registration is append-only; listeners run in
// registration order and there is no removal.
func (e *Engine) AddEventListener(eventType string, fn ListenerFunc, kwargs map[string]any) {
	e.listeners[eventType] = append(e.listeners[eventType], listenerEntry{fn: fn, kwargs: kwargs})
}

// SimulatePropagation deterministically replays every stored timeline,
// root event included, invoking every "propagate" listener per event.
// Items replay in id order; within an item, events replay in stored order.
// The engine mutates no state of its own during replay.
func (e *Engine) SimulatePropagation() error {
	for _, info := range e.infoIDs {
		for _, ev := range e.propagation[info] {
			if err := e.runEventListeners(EventPropagate, ev, info); err != nil {
				return err
			}
		}
	}
	if e.metrics != nil {
		e.metrics.RecordReplay()
	}
	e.logger.Debug("replay finished", logging.Count(len(e.infoIDs)))
	return nil
}

func (e *Engine) runEventListeners(eventType string, ev Event, info int) error {
	for _, entry := range e.listeners[eventType] {
		if err := entry.fn(e, ev, info, entry.kwargs); err != nil {
			return fmt.Errorf("propagation: %s listener for item %d: %w", eventType, info, err)
		}
	}
	return nil
}
