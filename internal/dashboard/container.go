package dashboard

import "sync"

// Listener receives the state produced by each transition.
type Listener func(State)

// Container is the single owner of a State. Transitions are serialized and
// listeners see them in the order they were applied.
//
// Listeners run synchronously on the goroutine that applied the transition
// and must not call Update; hand the value off (e.g. to a channel) instead.
type Container struct {
	mu    sync.Mutex
	state State

	// delivery is taken before mu is released so that notifications for
	// consecutive transitions cannot overtake each other.
	delivery  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewContainer returns a container holding initial.
func NewContainer(initial State) *Container {
	return &Container{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns the current state.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update applies fn to the current state, stores the result and notifies
// listeners. It returns the new state.
func (c *Container) Update(fn func(State) State) State {
	c.mu.Lock()
	next := fn(c.state)
	c.state = next
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.delivery.Lock()
	c.mu.Unlock()

	defer c.delivery.Unlock()
	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it.
func (c *Container) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}
