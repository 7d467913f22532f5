package history

// Subscribe registers fn to receive the new State after every change.
// Listeners run outside the lock and may read from the History.
// The returned function removes the listener; calling it again is harmless.
func (h *History[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *History[T]) listenersLocked() []func(State[T]) {
	if len(h.listeners) == 0 {
		return nil
	}

	// Registration order keeps notifications deterministic.
	out := make([]func(State[T]), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify[T any](listeners []func(State[T]), state State[T]) {
	for _, fn := range listeners {
		fn(state)
	}
}
