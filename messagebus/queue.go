// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"context"
	"sync"

	"github.com/bitmark-inc/dvpd/fault"
)

// DefaultQueueSize - used when a size of zero is requested
const DefaultQueueSize = 16

// Message - an item and the name of its sender
type Message struct {
	From string
	Item interface{}
}

// Queue - one direction of traffic
type Queue struct {
	queue  chan Message
	done   chan struct{}
	closer sync.Once
}

// NewQueue - create a queue holding up to size unread messages
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		queue: make(chan Message, size),
		done:  make(chan struct{}),
	}
}

// Send - queue an item, blocking while the queue is full
func (q *Queue) Send(ctx context.Context, from string, item interface{}) error {
	select {
	case <-q.done:
		return fault.SessionClosed
	default:
	}

	select {
	case q.queue <- Message{From: from, Item: item}:
		return nil
	case <-q.done:
		return fault.SessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Chan - channel to read from
func (q *Queue) Chan() <-chan Message {
	return q.queue
}

// Done - closed once the queue is closed
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Len - number of unread messages
func (q *Queue) Len() int {
	return len(q.queue)
}

// Close - refuse further sends, safe to call more than once
func (q *Queue) Close() {
	q.closer.Do(func() {
		close(q.done)
	})
}
