// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - bounded queues carrying messages between
// the two ends of a session
//
// each queue carries one direction; closing a queue is seen by the
// reader only after all queued messages have been drained
package messagebus
