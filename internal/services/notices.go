package services

import (
	"sync"
	"time"

	"mdvrp-planner/internal/domain"

	"github.com/google/uuid"
)

// Notice is a dismissible message for the operator.
type Notice struct {
	ID      string              `json:"id"`
	RouteID domain.RouteID      `json:"route_id,omitempty"`
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Marker  *domain.Coordinates `json:"marker,omitempty"`
	At      time.Time           `json:"at"`
}

// NoticeBoard holds only the most recent notice, so many routes failing at
// once produce one visible message instead of a storm.
type NoticeBoard struct {
	mu      sync.Mutex
	current *Notice
	subs    map[chan Notice]struct{}
	now     func() time.Time
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{subs: make(map[chan Notice]struct{}), now: time.Now}
}

// Post replaces the current notice and fans it out. Slow subscribers miss
// notices rather than block the poster.
func (b *NoticeBoard) Post(n Notice) Notice {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.At.IsZero() {
		n.At = b.now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = &n
	for ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

func (b *NoticeBoard) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss clears the current notice. A non-empty id must match it.
func (b *NoticeBoard) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil || (id != "" && b.current.ID != id) {
		return false
	}
	b.current = nil
	return true
}

// Subscribe returns a channel of future notices and a func to stop receiving.
func (b *NoticeBoard) Subscribe() (<-chan Notice, func()) {
	ch := make(chan Notice, 8)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}
