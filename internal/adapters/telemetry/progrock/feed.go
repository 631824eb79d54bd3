package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Feed)(nil)

// Feed is a progrock.Writer that queues vertex updates for a single reader.
// Log payloads are dropped; tool output reaches the user through the logger.
type Feed struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*progrock.StatusUpdate
	closed bool
}

// NewFeed creates an empty, open Feed.
func NewFeed() *Feed {
	f := &Feed{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// WriteStatus queues the vertex part of update.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	if len(update.Vertexes) == 0 {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.queue = append(f.queue, &progrock.StatusUpdate{Vertexes: update.Vertexes})
	f.cond.Signal()
	return nil
}

// Read blocks until an update is queued. It returns io.EOF once the feed is
// closed and drained.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) == 0 && !f.closed {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return nil, io.EOF
	}
	update := f.queue[0]
	f.queue[0] = nil
	f.queue = f.queue[1:]
	return update, nil
}

// Close ends the feed. Queued updates remain readable.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
	return nil
}
