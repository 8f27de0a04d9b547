// Package realtime menyediakan langganan "live query": setiap perubahan pada
// sebuah koleksi memicu subscriber mengambil ulang seluruh hasil query-nya.
package realtime

import (
	"sync"
)

const (
	CollectionTransactions = "transactions"
	CollectionAttendance   = "attendance"
	CollectionStudents     = "students"
	CollectionEvents       = "events"
	CollectionCheckpoint   = "checkpoint"

	// CollectionAll dipublish setelah listener reconnect: notifikasi bisa hilang,
	// jadi semua subscriber harus refetch.
	CollectionAll = "*"
)

type Change struct {
	Collection string `json:"collection"`
	Op         string `json:"op"`
	Day        string `json:"day,omitempty"` // YYYY-MM-DD kalau perubahan terkait satu hari
}

type subscription struct {
	ch     chan Change
	filter func(Change) bool
}

// Hub fan-out Change ke subscriber. Channel subscriber ber-buffer 1 dan
// publish tidak pernah blok: perubahan yang menumpuk digabung jadi satu sinyal
// karena subscriber selalu refetch hasil penuh.
type Hub struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	next   uint64
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscription)}
}

// Subscribe mengembalikan channel perubahan + fungsi unsubscribe (aman dipanggil berkali-kali).
func (h *Hub) Subscribe(filter func(Change) bool) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = &subscription{ch: ch, filter: filter}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
		})
	}
}

func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, s := range h.subs {
		if c.Collection != CollectionAll && s.filter != nil && !s.filter(c) {
			continue
		}
		select {
		case s.ch <- c:
		default:
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close menutup semua subscription (dipakai saat shutdown).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, s := range h.subs {
		close(s.ch)
		delete(h.subs, id)
	}
}

/* =========================
   Filters
   ========================= */

func ForCollections(names ...string) func(Change) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(c Change) bool {
		_, ok := set[c.Collection]
		return ok
	}
}

// ForDayRange: perubahan tanpa Day selalu lolos (mis. update massal).
func ForDayRange(from, to string, names ...string) func(Change) bool {
	inCollection := ForCollections(names...)
	return func(c Change) bool {
		if !inCollection(c) {
			return false
		}
		if c.Day == "" {
			return true
		}
		return c.Day >= from && c.Day <= to
	}
}
