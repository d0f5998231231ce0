// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the immutable parts of a ledger transaction
//
// A transaction consumes input states (by StateRef), produces output
// states, carries commands with the keys that must sign them and is
// optionally bound to a notary and a time window.  WireTransaction is
// the hashed, immutable form; SignedTransaction adds the signatures;
// LedgerTransaction has its inputs resolved so that contracts can
// verify it.
package ledger
