// File: statefeed/feed.go
// Package statefeed accumulates key upserts and deletions between pushes
// and flushes them as one delta message per tick. Producers call Set and
// Delete from any goroutine; a single flusher drains the pending queue
// and hands the delta to the server for broadcast.
// License: Apache-2.0

package statefeed

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/statewire/deltaws/protocol"
)

type op struct {
	del   bool
	key   []byte
	value []byte
}

// Feed is a FIFO of pending state mutations. Flush preserves the
// insertion order of upserts and of deletions within one delta.
type Feed struct {
	mu      sync.Mutex
	pending *queue.Queue
}

// New returns an empty feed.
func New() *Feed {
	return &Feed{pending: queue.New()}
}

// Set queues an upsert of key to value. The byte slices are retained;
// callers must not mutate them afterwards.
func (f *Feed) Set(key, value []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.Add(op{key: key, value: value})
}

// Delete queues a deletion of key.
func (f *Feed) Delete(key []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.Add(op{del: true, key: key})
}

// Pending returns the number of queued mutations.
func (f *Feed) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending.Length()
}

// Flush drains every queued mutation into one delta. It returns nil
// when nothing is pending, so callers can skip an empty push.
func (f *Feed) Flush() *protocol.Delta {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending.Length() == 0 {
		return nil
	}
	d := &protocol.Delta{}
	for f.pending.Length() > 0 {
		o := f.pending.Remove().(op)
		if o.del {
			d.Deletes = append(d.Deletes, o.key)
		} else {
			d.Updates = append(d.Updates, protocol.Pair{Key: o.key, Value: o.value})
		}
	}
	return d
}
