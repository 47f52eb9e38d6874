package app

import (
	"sync"

	"quiz-management-service/internal/domain"
)

// LeaderboardHub fans quiz standings out to subscribers. Channels are
// buffered and stale updates are dropped so a slow reader never blocks the
// scoring path.
type LeaderboardHub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan []domain.Result]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[int64]map[chan []domain.Result]struct{}),
	}
}

// Subscribe registers a listener for one quiz. The caller must invoke the
// returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(quizID int64) (<-chan []domain.Result, func()) {
	ch := make(chan []domain.Result, 8)

	h.mu.Lock()
	subs, ok := h.subscribers[quizID]
	if !ok {
		subs = make(map[chan []domain.Result]struct{})
		h.subscribers[quizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[quizID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, quizID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers standings to every subscriber of the quiz, replacing an
// undelivered update rather than waiting on it.
func (h *LeaderboardHub) Publish(quizID int64, standings []domain.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[quizID] {
		select {
		case ch <- standings:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- standings
		}
	}
}
