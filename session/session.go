// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package session - message channels between two parties
//
// A session carries arbitrary values in order to a single
// counterparty.  Receives are bounded by a timeout and inbound
// traffic is rate limited.  A failing party calls Fail so that the
// counterparty's next Receive returns an *AbortError carrying the
// cause.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/identity"
	"github.com/bitmark-inc/dvpd/messagebus"
)

// defaults
const (
	DefaultTimeout   = 30 * time.Second
	DefaultQueueSize = 32
	failTimeout      = time.Second
)

// Session - a two party message channel as seen from one end
type Session interface {
	Counterparty() identity.Party
	Send(ctx context.Context, message interface{}) error
	Receive(ctx context.Context) (interface{}, error)
	Fail(err error)
	Close()
}

// Options - per session limits
//
// zero Timeout uses DefaultTimeout; zero Rate means unlimited
type Options struct {
	Timeout   time.Duration
	Rate      float64
	Burst     int
	QueueSize int
}

// AbortError - the counterparty failed the session
type AbortError struct {
	Party string
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("counterparty: %s aborted: %s", e.Party, e.Err)
}

// Unwrap - the counterparty's original error
func (e *AbortError) Unwrap() error {
	return e.Err
}

// Is - every abort also matches fault.CounterpartyAbort
func (e *AbortError) Is(target error) bool {
	return target == error(fault.CounterpartyAbort)
}

// carries a Fail to the peer
type failure struct {
	err error
}

type endpoint struct {
	sync.Mutex
	log     *logger.L
	self    identity.Party
	peer    identity.Party
	out     *messagebus.Queue
	in      *messagebus.Queue
	limiter *rate.Limiter
	timeout time.Duration
	closed  bool
}

// Pipe - create a connected pair of in-process sessions
//
// the first session is held by a and talks to b
func Pipe(a identity.Party, b identity.Party, options Options) (Session, Session) {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.QueueSize <= 0 {
		options.QueueSize = DefaultQueueSize
	}

	aToB := messagebus.NewQueue(options.QueueSize)
	bToA := messagebus.NewQueue(options.QueueSize)

	return newEndpoint(a, b, aToB, bToA, options), newEndpoint(b, a, bToA, aToB, options)
}

func newEndpoint(self identity.Party, peer identity.Party, out *messagebus.Queue, in *messagebus.Queue, options Options) *endpoint {
	limit := rate.Inf
	burst := options.Burst
	if options.Rate > 0 {
		limit = rate.Limit(options.Rate)
		if burst <= 0 {
			burst = 1
		}
	}
	return &endpoint{
		log:     logger.New("session:" + self.Name + ">" + peer.Name),
		self:    self,
		peer:    peer,
		out:     out,
		in:      in,
		limiter: rate.NewLimiter(limit, burst),
		timeout: options.Timeout,
	}
}

// Counterparty - the party at the other end
func (e *endpoint) Counterparty() identity.Party {
	return e.peer
}

// Send - queue a message for the counterparty
func (e *endpoint) Send(ctx context.Context, message interface{}) error {
	if e.isClosed() {
		return fault.SessionClosed
	}
	e.log.Debugf("send: %T", message)
	return e.out.Send(ctx, e.self.Name, message)
}

// Receive - wait for the next message from the counterparty
func (e *endpoint) Receive(ctx context.Context) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.limiter.Wait(ctx); nil != err {
		return nil, e.contextError(ctx)
	}

	select {
	case m := <-e.in.Chan():
		return e.unpack(m)
	default:
	}

	select {
	case m := <-e.in.Chan():
		return e.unpack(m)
	case <-e.in.Done():
		// the peer may have queued a final message before closing
		select {
		case m := <-e.in.Chan():
			return e.unpack(m)
		default:
		}
		return nil, fault.SessionClosed
	case <-ctx.Done():
		return nil, e.contextError(ctx)
	}
}

func (e *endpoint) unpack(m messagebus.Message) (interface{}, error) {
	if f, ok := m.Item.(failure); ok {
		e.log.Warnf("counterparty aborted: %s", f.err)
		return nil, &AbortError{Party: m.From, Err: f.err}
	}
	e.log.Debugf("receive: %T", m.Item)
	return m.Item, nil
}

// map a finished context to a session error
func (e *endpoint) contextError(ctx context.Context) error {
	err := ctx.Err()
	if nil == err || errors.Is(err, context.DeadlineExceeded) {
		e.log.Warnf("receive timed out after: %s", e.timeout)
		return fault.SessionTimeout
	}
	return err
}

// Fail - tell the counterparty the session failed, then close
func (e *endpoint) Fail(err error) {
	if nil == err || e.isClosed() {
		e.Close()
		return
	}

	// a peer abort is not echoed back
	var abort *AbortError
	if !errors.As(err, &abort) {
		ctx, cancel := context.WithTimeout(context.Background(), failTimeout)
		if sendErr := e.out.Send(ctx, e.self.Name, failure{err: err}); nil != sendErr {
			e.log.Debugf("failure not delivered: %s", sendErr)
		}
		cancel()
	}
	e.log.Warnf("failed: %s", err)
	e.Close()
}

// Close - close the outbound direction
func (e *endpoint) Close() {
	e.Lock()
	e.closed = true
	e.Unlock()
	e.out.Close()
}

func (e *endpoint) isClosed() bool {
	e.Lock()
	defer e.Unlock()
	return e.closed
}

// Expect - receive the next message and check its type
func Expect[T any](ctx context.Context, s Session) (T, error) {
	var zero T
	item, err := s.Receive(ctx)
	if nil != err {
		return zero, err
	}
	value, ok := item.(T)
	if !ok {
		return zero, fmt.Errorf("%w: expected: %T  received: %T", fault.UnexpectedMessage, zero, item)
	}
	return value, nil
}
