package notify

import (
	"sync"
	"time"
)

// Notification is the state of the single on-screen banner.
type Notification struct {
	Visible   bool      `json:"visible"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Banner holds one notification. Writes are not queued: the latest Show or
// Hide replaces whatever was there.
type Banner struct {
	mu      sync.Mutex
	current Notification
	subs    map[chan Notification]struct{}
	now     func() time.Time
}

func NewBanner() *Banner {
	return &Banner{
		subs: make(map[chan Notification]struct{}),
		now:  time.Now,
	}
}

// Show makes the banner visible with text.
func (b *Banner) Show(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publish(Notification{Visible: true, Text: text})
}

// Hide makes the banner invisible. The last text is kept.
func (b *Banner) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publish(Notification{Visible: false, Text: b.current.Text})
}

func (b *Banner) Current() Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Subscribe returns a channel that always holds the most recent state. A slow
// reader only misses intermediate states. Call the returned func to stop.
func (b *Banner) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 1)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	ch <- b.current
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

// publish must be called with mu held.
func (b *Banner) publish(n Notification) {
	n.UpdatedAt = b.now()
	b.current = n
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- n
	}
}
