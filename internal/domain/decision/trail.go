package decision

import "sync"

// Trail is the process-lifetime, append-only audit log. It is the only
// mutable state shared across submissions; a single mutex serializes
// appends from concurrent decisions. Entries are never removed or reordered.
type Trail struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func NewTrail() *Trail {
	return &Trail{}
}

func (t *Trail) Append(e AuditEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the trail in append order.
func (t *Trail) Entries() []AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]AuditEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
