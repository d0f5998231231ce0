// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/dvpd/fault"
	"github.com/bitmark-inc/dvpd/util"
)

// TimeWindow - the interval in which a transaction may be notarised
//
// a zero From or Until is unbounded on that side; From is inclusive
// and Until is exclusive
type TimeWindow struct {
	From  time.Time
	Until time.Time
}

// FromOnly - valid from an instant onwards
func FromOnly(from time.Time) TimeWindow {
	return TimeWindow{From: from}
}

// UntilOnly - valid up to an instant
func UntilOnly(until time.Time) TimeWindow {
	return TimeWindow{Until: until}
}

// Between - valid in [from, until)
func Between(from time.Time, until time.Time) (TimeWindow, error) {
	if !from.Before(until) {
		return TimeWindow{}, fault.TimeWindowInvalid
	}
	return TimeWindow{From: from, Until: until}, nil
}

// WithTolerance - valid in [instant-tolerance, instant+tolerance)
func WithTolerance(instant time.Time, tolerance time.Duration) (TimeWindow, error) {
	return Between(instant.Add(-tolerance), instant.Add(tolerance))
}

// Contains - true if t lies inside the window
func (tw TimeWindow) Contains(t time.Time) bool {
	if !tw.From.IsZero() && t.Before(tw.From) {
		return false
	}
	if !tw.Until.IsZero() && !t.Before(tw.Until) {
		return false
	}
	return true
}

// Midpoint - centre of a bounded window, or its only bound
//
// false if both sides are open
func (tw TimeWindow) Midpoint() (time.Time, bool) {
	switch {
	case tw.From.IsZero() && tw.Until.IsZero():
		return time.Time{}, false
	case tw.From.IsZero():
		return tw.Until, true
	case tw.Until.IsZero():
		return tw.From, true
	}
	return tw.From.Add(tw.Until.Sub(tw.From) / 2), true
}

// String - for logging
func (tw TimeWindow) String() string {
	f := "-∞"
	if !tw.From.IsZero() {
		f = tw.From.UTC().Format(time.RFC3339Nano)
	}
	u := "+∞"
	if !tw.Until.IsZero() {
		u = tw.Until.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("[%s, %s)", f, u)
}

// Pack - canonical form for hashing
func (tw TimeWindow) Pack() []byte {
	buffer := packInstant(nil, tw.From)
	return packInstant(buffer, tw.Until)
}

func packInstant(buffer []byte, t time.Time) []byte {
	if t.IsZero() {
		return util.AppendBool(buffer, false)
	}
	buffer = util.AppendBool(buffer, true)
	return util.AppendVarint64(buffer, uint64(t.UnixNano()))
}
