package command

import "sync"

// DefaultUndoLimit is the history cap applied when none is configured.
const DefaultUndoLimit = 32

// History is a bounded stack of executed commands, most recent last. Pushing
// past the cap evicts the oldest entries; a cap of zero disables retention
// entirely (pushes are dropped). Safe for concurrent access, matching the
// executor's busy-guard model where only cap changes may race with reads.
type History[C any] struct {
	mu      sync.Mutex
	limit   int
	entries []Command[C]
}

// NewHistory constructs a history with the given cap. Negative caps are
// treated as zero.
func NewHistory[C any](limit int) *History[C] {
	if limit < 0 {
		limit = 0
	}
	return &History[C]{limit: limit}
}

// Push retains cmd as the most recent entry, evicting the oldest entries
// past the cap.
func (h *History[C]) Push(cmd Command[C]) {
	if cmd == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit == 0 {
		return
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

// Pop removes and returns the most recent entry. The second return is false
// when the history is empty.
func (h *History[C]) Pop() (Command[C], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.entries)
	if n == 0 {
		var zero Command[C]
		return zero, false
	}
	cmd := h.entries[n-1]
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	return cmd, true
}

// Len returns the number of retained commands.
func (h *History[C]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear discards all retained commands without invoking their reverse
// actions.
func (h *History[C]) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}

// Limit returns the current cap.
func (h *History[C]) Limit() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.limit
}

// SetLimit changes the cap. Lowering it below the current count immediately
// evicts the oldest entries so only the most recent n remain.
func (h *History[C]) SetLimit(n int) {
	if n < 0 {
		n = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.limit = n
	if over := len(h.entries) - n; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}
