// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"sync"
)

// recordQueue is an unbounded FIFO between the goroutine running an agent
// and the goroutine translating its records. Emit never blocks; records
// emitted after Close are dropped.
type recordQueue struct {
	mu     sync.Mutex
	items  []Record
	closed bool
	err    error
	notify chan struct{}
}

func newRecordQueue() *recordQueue {
	return &recordQueue{notify: make(chan struct{}, 1)}
}

// Emit appends r to the queue.
func (q *recordQueue) Emit(_ context.Context, r Record) {
	q.mu.Lock()
	if !q.closed {
		q.items = append(q.items, r)
	}
	q.mu.Unlock()
	q.signal()
}

// Close marks the end of the producer. err is reported by Next once every
// queued record has been read.
func (q *recordQueue) Close(err error) {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.err = err
	}
	q.mu.Unlock()
	q.signal()
}

// Next blocks until a record is available or the queue is closed and empty.
func (q *recordQueue) Next(ctx context.Context) (Record, bool, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			r := q.items[0]
			q.items[0] = Record{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return r, true, nil
		}
		if q.closed {
			err := q.err
			q.mu.Unlock()
			return Record{}, false, err
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return Record{}, false, ctx.Err()
		}
	}
}

func (q *recordQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
