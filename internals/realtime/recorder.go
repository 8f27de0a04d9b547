package realtime

import (
	"context"
	"sync"
)

// Recorder menyimpan semua Change yang dikirim (untuk test & debugging).
type Recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *Recorder) Notify(_ context.Context, c Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}
