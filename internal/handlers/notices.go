package handlers

import (
	"sync"

	"github.com/example/lookalike/internal/uploader"
)

// Notices queues controller notices until the next page render shows them.
type Notices struct {
	mu      sync.Mutex
	pending []uploader.Notice
}

// NewNotices returns an empty queue.
func NewNotices() *Notices {
	return &Notices{}
}

// Notify implements uploader.Notifier.
func (n *Notices) Notify(notice uploader.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, notice)
}

// Drain returns the pending messages and clears the queue.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pending) == 0 {
		return nil
	}
	messages := make([]string, 0, len(n.pending))
	for _, notice := range n.pending {
		messages = append(messages, notice.Message)
	}
	n.pending = nil
	return messages
}
