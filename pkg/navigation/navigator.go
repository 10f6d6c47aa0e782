package navigation

import "sync"

// Navigator reports the current location and moves to another one.
// Implementations must be safe for concurrent use.
type Navigator interface {
	Location() Location
	Navigate(to Location, replace bool)
}

// History is an in-memory Navigator with a back stack.
type History struct {
	onChange func(Location)
	entries  []Location
	mu       sync.Mutex
}

// NewHistory starts at initial.
func NewHistory(initial Location) *History {
	return &History{entries: []Location{initial}}
}

// OnChange registers a callback run after every navigation, outside the lock.
func (h *History) OnChange(fn func(Location)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = fn
}

// Location returns the current entry.
func (h *History) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Navigate pushes to, or overwrites the current entry when replace is set.
func (h *History) Navigate(to Location, replace bool) {
	h.mu.Lock()
	if replace {
		h.entries[len(h.entries)-1] = to
	} else {
		h.entries = append(h.entries, to)
	}
	fn := h.onChange
	h.mu.Unlock()

	if fn != nil {
		fn(to)
	}
}

// Back pops the current entry. It reports false at the first entry.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	if len(h.entries) == 1 {
		loc := h.entries[0]
		h.mu.Unlock()
		return loc, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	loc := h.entries[len(h.entries)-1]
	fn := h.onChange
	h.mu.Unlock()

	if fn != nil {
		fn(loc)
	}
	return loc, true
}

// Len returns the number of entries on the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

var _ Navigator = (*History)(nil)
