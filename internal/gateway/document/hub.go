package document

import (
	"sync"

	"paintpro/internal/model"
)

// hub fans job-list snapshots out to per-owner subscribers. Slow subscribers
// drop intermediate snapshots rather than block writers.
type hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan []model.Job]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[int64]map[chan []model.Job]struct{})}
}

func (h *hub) subscribe(ownerID int64) (chan []model.Job, func()) {
	ch := make(chan []model.Job, 1)
	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[chan []model.Job]struct{})
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ownerID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, ownerID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *hub) hasSubscribers(ownerID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ownerID]) > 0
}

func (h *hub) publish(ownerID int64, jobs []model.Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ownerID] {
		// Replace a pending snapshot instead of blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- jobs:
		default:
		}
	}
}
