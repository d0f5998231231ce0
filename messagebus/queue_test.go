// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/messagebus"
)

func TestQueue(t *testing.T) {

	items := []string{"c1", "c2", "c3"}

	q := messagebus.NewQueue(len(items))
	for _, item := range items {
		err := q.Send(context.Background(), "tester", item)
		assert.Nil(t, err, "send: %s", item)
	}
	assert.Equal(t, len(items), q.Len(), "queued")

	queue := q.Chan()
	for _, item := range items {
		received := <-queue
		assert.Equal(t, "tester", received.From, "from")
		assert.Equal(t, item, received.Item, "item")
	}
}

func TestQueueFull(t *testing.T) {
	q := messagebus.NewQueue(1)
	assert.Nil(t, q.Send(context.Background(), "tester", 1), "first send")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Send(ctx, "tester", 2)
	assert.Equal(t, context.DeadlineExceeded, err, "full queue")
}

func TestQueueClose(t *testing.T) {
	q := messagebus.NewQueue(0)
	assert.Nil(t, q.Send(context.Background(), "tester", "last"), "send")

	q.Close()
	q.Close()

	err := q.Send(context.Background(), "tester", "too late")
	assert.Equal(t, fault.SessionClosed, err, "send after close")

	select {
	case <-q.Done():
	default:
		t.Fatal("done not signalled")
	}

	received := <-q.Chan()
	assert.Equal(t, "last", received.Item, "queued item lost by close")
}

func TestCloseReleasesBlockedSender(t *testing.T) {
	q := messagebus.NewQueue(1)
	assert.Nil(t, q.Send(context.Background(), "tester", 1), "first send")

	var wg sync.WaitGroup
	var err error
	wg.Add(1)
	go func() {
		defer wg.Done()
		err = q.Send(context.Background(), "tester", 2)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()
	wg.Wait()
	assert.Equal(t, fault.SessionClosed, err, "blocked sender")
}
